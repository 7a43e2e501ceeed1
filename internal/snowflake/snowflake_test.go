package snowflake

import (
	"testing"
	"time"
)

func TestSetupSnowflake(t *testing.T) {
	err := Setup(0)
	if err != nil {
		t.Error(err)
	}
}

func TestGenerateSnowflake(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Error(err)
	}

	extracted := ExtractTimestamp(id)
	now := time.Now().UnixMilli()
	if extracted > now || extracted < now-time.Minute.Milliseconds() {
		t.Errorf("extracted timestamp %d is not near current time %d", extracted, now)
	}
}

func TestGenerateSnowflakeIncreasing(t *testing.T) {
	var last int64
	for range 1000 {
		id, err := Generate()
		if err != nil {
			return // increment overflow ends the run early, ordering held until then
		}
		if id <= last {
			t.Fatalf("generated ID %d is not greater than previous ID %d", id, last)
		}
		last = id
	}
}

func TestSnowflakeIncrementOverflow(t *testing.T) {
	for range 100000 {
		_, err := Generate()
		if err != nil {
			return
		}
	}
	t.Error("Expected increment overflow, but there wasn't")
}
