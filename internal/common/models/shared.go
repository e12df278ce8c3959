package models

import (
	"time"
)

// Log is one persisted application log entry (warn and above).
type Log struct {
	AppId        string                 `bson:"app_id" json:"app_id"`
	Message      string                 `bson:"message" json:"message"`
	Caller       string                 `bson:"caller,omitempty" json:"caller,omitempty"`
	LogLevelId   int                    `bson:"log_level_id" json:"log_level_id"`
	Fields       map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
	CreatedOnUtc time.Time              `bson:"created_on_utc" json:"created_on_utc"`
}
