// File: utils/constants.go
package utils

import "time"

// PushTokenPrefix is the prefix used for Redis push-token registry keys.
const PushTokenPrefix = "fcm:token:"

// PushDeniedPrefix marks recipients that explicitly refused push delivery.
const PushDeniedPrefix = "fcm:denied:"

// PushTokenTTL is the time-to-live for registered push tokens.
const PushTokenTTL = 30 * 24 * time.Hour

// BookingEventsChannel is the Redis pub/sub channel for booking events.
const BookingEventsChannel = "booking-events"
