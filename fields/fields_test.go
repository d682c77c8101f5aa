// SPDX-License-Identifier: GPL-3.0-or-later
package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		nationalId string
		postalCode string
	}{
		{"punctuated", "CPF: 123.456.789-09\nCEP: 12345-678", "123.456.789-09", "12345-678"},
		{"bare", "CPF 12345678909 CEP 12345678", "12345678909", "12345678"},
		{"firstwins", "CPF: 111.222.333-44 CPF: 555.666.777-88 CEP: 11111-111 CEP: 22222-222", "111.222.333-44", "11111-111"},
		{"postalonly", "Endereço CEP 04567-000", "", "04567-000"},
		{"idonly", "Documento 987.654.321-00", "987.654.321-00", ""},
		{"none", "Relatório sem dados", "", ""},
		{"empty", "", "", ""},
		{"tooshort", "1234-567 12.34", "", ""},
		{"embedded", "ABC123456789090", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields := Extract(tc.text)

			if len(tc.nationalId) == 0 {
				assert.Nil(t, fields.NationalId)
			} else if assert.NotNil(t, fields.NationalId) {
				assert.Equal(t, tc.nationalId, *fields.NationalId)
			}

			if len(tc.postalCode) == 0 {
				assert.Nil(t, fields.PostalCode)
			} else if assert.NotNil(t, fields.PostalCode) {
				assert.Equal(t, tc.postalCode, *fields.PostalCode)
			}
		})
	}
}

func TestExtract_BareIdNotMistakenForPostalCode(t *testing.T) {
	fields := Extract("12345678909")

	assert.True(t, fields.HasNationalId())
	assert.False(t, fields.HasPostalCode())
}
