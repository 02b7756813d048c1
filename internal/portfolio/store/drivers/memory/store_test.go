package memory_test

import (
	"testing"

	"github.com/subham12r/portfolio/internal/portfolio/store/drivers/memory"
	"github.com/subham12r/portfolio/internal/portfolio/store/storetest"
)

func TestStore(t *testing.T) {
	t.Parallel()
	storetest.RunTokens(t, memory.NewStore())
}
