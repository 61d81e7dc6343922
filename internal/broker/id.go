package broker

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func newRequestID(now time.Time) string {
	digest := strings.ReplaceAll(uuid.New().String(), "-", "")
	suffix, err := strconv.ParseUint(digest[:4], 16, 32)
	if err != nil {
		suffix = 0
	}
	return fmt.Sprintf("REQ%d%04d", now.Unix(), suffix%10000)
}
