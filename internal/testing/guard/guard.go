package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("OPENBOOKS_TEST_MODE") == "" {
			_ = os.Setenv("OPENBOOKS_TEST_MODE", "1")
		}
	})
}
