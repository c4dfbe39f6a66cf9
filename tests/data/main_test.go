package data

import (
	"os"
	"testing"

	tcommon "github.com/bobmcallan/tally/tests/common"
)

func TestMain(m *testing.M) {
	code := m.Run()
	tcommon.CleanupSurrealDB()
	os.Exit(code)
}
