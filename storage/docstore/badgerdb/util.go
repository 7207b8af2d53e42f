package badgerstore

import (
	"fmt"
	"strings"
)

func sprintf(f string, args ...interface{}) string {
	return strings.TrimSpace(fmt.Sprintf("badger: "+f, args...))
}
