package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/velvetlabs/velvet/internal/store"
)

func velvetDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".velvet")
}

func getStore() store.Storage {
	storeLayer, err := store.NewSQLiteStore(filepath.Join(velvetDir(), "velvet.db"))
	if err != nil {
		fmt.Printf("Failed to init store: %v\n", err)
		os.Exit(1)
	}
	return storeLayer
}
