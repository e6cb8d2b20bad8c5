package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingID returns an ID of the form BK<unix millis>_<6 upper-case alphanumerics>.
func NewBookingID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("BK%d_%s", now.UnixMilli(), suffix)
}

// NewChatRoomID returns a fresh chat room identifier.
func NewChatRoomID() string {
	return uuid.NewString()
}
