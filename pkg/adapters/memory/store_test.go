package memory_test

import (
	"testing"

	"github.com/aretw0/ensemble/pkg/adapters/memory"
	"github.com/aretw0/ensemble/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}
