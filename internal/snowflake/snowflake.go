package snowflake

import (
	"fmt"
	"sync"
	"time"
)

// Layout: 42 bits of unix-millisecond timestamp, 10 bits of worker ID,
// 12 bits of per-millisecond increment. IDs generated by one worker are
// strictly increasing, which is what keeps the message log in insertion
// order when sorted by ID.
const (
	timestampBits int64 = 42
	workerBits    int64 = 10
	incrementBits int64 = 64 - timestampBits - workerBits

	timestampShift = workerBits + incrementBits
	workerShift    = incrementBits

	maxWorkerID  = 1<<workerBits - 1
	maxIncrement = 1<<incrementBits - 1
)

var (
	mutex         sync.Mutex
	workerID      int64
	hasWorkerID   bool
	lastTimestamp int64
	lastIncrement int64
)

func Setup(id int64) error {
	mutex.Lock()
	defer mutex.Unlock()

	if id > maxWorkerID {
		return fmt.Errorf("worker ID value exceeds maximum value of [%d]", maxWorkerID)
	}
	if hasWorkerID {
		return fmt.Errorf("worker ID for snowflake generator has been already set")
	}

	workerID = id
	hasWorkerID = true
	return nil
}

func Generate() (int64, error) {
	mutex.Lock()
	defer mutex.Unlock()

	timestamp := time.Now().UnixMilli()
	if timestamp == lastTimestamp {
		lastIncrement++
		if lastIncrement > maxIncrement {
			return 0, fmt.Errorf("increment overflow after increment reached %d", lastIncrement)
		}
	} else {
		lastIncrement = 0
		lastTimestamp = timestamp
	}

	return timestamp<<timestampShift | workerID<<workerShift | lastIncrement, nil
}

// ExtractTimestamp returns the unix-millisecond creation instant encoded in an ID.
func ExtractTimestamp(id int64) int64 {
	return id >> timestampShift
}
