package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	defaultMockClients = 5
	maxMockClients     = 50
)

type GenerateMockDataRequest struct {
	ClientCount       int  `json:"client_count"`
	IntroduceFailures bool `json:"introduce_failures"`
}

func (r *GenerateMockDataRequest) ValidateGenerateMockData() error {
	if r.ClientCount == 0 {
		r.ClientCount = defaultMockClients
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientCount, validation.Min(1), validation.Max(maxMockClients)),
	)
}
