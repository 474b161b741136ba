package models

import "encoding/json"

const DefaultLimit = 10

// Query offset может быть отрицательным: так Bot API отдаёт последние updates
type Query struct {
	Token  string `json:"token" validate:"required"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit" validate:"min=1,max=100"`
}

type Response struct {
	Count   int               `json:"count"`
	Updates []json.RawMessage `json:"updates"`
}
