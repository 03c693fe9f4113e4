package categorizer

import (
	"fmt"
	"strings"

	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/retriever"
)

const contextPromptTemplate = `You are a financial assistant that categorizes transactions.

You are given a new transaction and a list of previously categorized transactions that are semantically similar to it.

The valid categories are:
%s

The transaction to categorize is:
%s

The similar transactions are:
%s

Respond with the numeric id of exactly one category from the list above, and nothing else.`

const fallbackPromptTemplate = `You are a financial assistant that categorizes transactions.

The valid categories are:
%s

The transaction to categorize is:
%s

There are no previously categorized transactions to compare against. Choose the best fit from the list.

Respond with the numeric id of exactly one category from the list above, and nothing else.`

const correctivePromptTemplate = `Your previous answer %q is not a valid category id.

The valid categories are:
%s

The transaction to categorize is:
%s

Respond with only the numeric id of exactly one category from the list above. Do not include any other text.`

// renderCategories lists the assignable categories as "ID: n | Name: x"
// lines, the format the model is told to answer from.
func renderCategories(taxonomy models.Taxonomy) string {
	var b strings.Builder
	for _, c := range taxonomy.Assignable() {
		fmt.Fprintf(&b, "ID: %d | Name: %s\n", c.ID, c.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTransaction renders the new transaction's identity fields.
func renderTransaction(tx models.Transaction) string {
	return fmt.Sprintf("Vendor: %s | Amount: %s | Date: %s | Description: %s",
		tx.Vendor,
		tx.Amount.StringFixed(2),
		models.NormalizeDate(tx.Date).Format("2006-01-02"),
		tx.Description,
	)
}

// renderNeighbors renders the ranked neighbor list with each neighbor's
// assigned category. The list is already capped at k by the retriever.
func renderNeighbors(neighbors []retriever.Neighbor) string {
	var b strings.Builder
	for i, n := range neighbors {
		categoryName := ""
		if n.Transaction.Category != nil {
			categoryName = n.Transaction.Category.Name
		}
		categoryID := uint(0)
		if n.Transaction.CategoryID != nil {
			categoryID = *n.Transaction.CategoryID
		}
		fmt.Fprintf(&b, "%d. %s | Category: %s (ID: %d)\n",
			i+1, renderTransaction(n.Transaction), categoryName, categoryID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildPrompt assembles the bounded prompt: the context variant when
// neighbors exist, the fallback variant on cold start.
func buildPrompt(tx models.Transaction, neighbors []retriever.Neighbor, taxonomy models.Taxonomy) string {
	if len(neighbors) == 0 {
		return fmt.Sprintf(fallbackPromptTemplate, renderCategories(taxonomy), renderTransaction(tx))
	}
	return fmt.Sprintf(contextPromptTemplate, renderCategories(taxonomy), renderTransaction(tx), renderNeighbors(neighbors))
}

// buildCorrectivePrompt assembles the single re-prompt after an invalid
// answer.
func buildCorrectivePrompt(invalidAnswer string, tx models.Transaction, taxonomy models.Taxonomy) string {
	return fmt.Sprintf(correctivePromptTemplate, invalidAnswer, renderCategories(taxonomy), renderTransaction(tx))
}
