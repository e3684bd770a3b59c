package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

type transactionResponse struct {
	ID                    uuid.UUID     `json:"id"`
	RemoteID              string        `json:"remote_id,omitempty"`
	Account               string        `json:"account"`
	OpposingAccountNumber string        `json:"opposing_account_number,omitempty"`
	OpposingName          string        `json:"opposing_name,omitempty"`
	Date                  time.Time     `json:"date"`
	Amount                string        `json:"amount"`
	Currency              string        `json:"currency"`
	Description           string        `json:"description"`
	Tags                  []tagResponse `json:"tags"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             *time.Time    `json:"updated_at,omitempty"`
}

type tagResponse struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:                    tx.ID,
		RemoteID:              tx.RemoteID,
		OpposingAccountNumber: tx.OpposingAccountNumber,
		OpposingName:          tx.OpposingName,
		Date:                  tx.RemoteDate,
		Amount:                tx.Amount.Value.StringFixed(2),
		Currency:              tx.Amount.Code(),
		Description:           tx.Description,
		Tags:                  make([]tagResponse, 0, len(tx.Tags)),
		CreatedAt:             tx.CreatedAt,
		UpdatedAt:             tx.UpdatedAt,
	}

	if tx.OwnAccount != nil {
		resp.Account = tx.OwnAccount.Number
	}

	for _, t := range tx.Tags {
		resp.Tags = append(resp.Tags, tagResponse{Name: t.Name, Label: t.Label})
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
