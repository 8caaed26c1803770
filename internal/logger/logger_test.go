package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		environment   string
		expectedLevel logrus.Level
		expectJSON    bool
	}{
		{name: "production gets JSON", level: "info", environment: "production", expectedLevel: logrus.InfoLevel, expectJSON: true},
		{name: "development gets text", level: "debug", environment: "development", expectedLevel: logrus.DebugLevel, expectJSON: false},
		{name: "invalid level defaults to info", level: "loud", environment: "development", expectedLevel: logrus.InfoLevel, expectJSON: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level, tt.environment)
			assert.Equal(t, tt.expectedLevel, log.GetLevel())

			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}
