package qc

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/ShayCichocki/reportqc/internal/logging"
)

func TestMain(m *testing.M) {
	logging.Discard()
	goleak.VerifyTestMain(m)
}
