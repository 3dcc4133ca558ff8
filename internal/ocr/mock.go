package ocr

import "context"

const mockConfidence = 0.85

const sampleReceipt = `SAMPLE GROCERY STORE
123 Main Street
City, State 12345

Date: 01/15/2026

Milk                    $4.99
Bread                   $3.49
Eggs                    $5.99

Subtotal:              $14.47
Tax:                    $1.16
Total:                 $15.63

VISA ****1234`

// Mock serves a fixed sample receipt for environments without tesseract,
// keeping the parsing pipeline exercisable in development.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Available() bool { return false }

func (m *Mock) Version() string { return "" }

func (m *Mock) ExtractText(_ context.Context, _ []byte) (string, float64, error) {
	return sampleReceipt, mockConfidence, nil
}
