package metricsvc

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStorageObserver(t *testing.T) {
	before := testutil.CollectAndCount(StorageDuration)

	StorageObserver{}.ObserveStorage("memory", "read", time.Millisecond, nil)
	StorageObserver{}.ObserveStorage("memory", "write", time.Millisecond, errors.New("disk full"))

	assert.GreaterOrEqual(t, testutil.CollectAndCount(StorageDuration), before+2)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "success", Status(nil))
	assert.Equal(t, "error", Status(errors.New("boom")))
}
