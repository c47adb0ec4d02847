package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		input    string
		wantName string
		wantArgs string
	}{
		{"/start", "start", ""},
		{"/start abc123", "start", "abc123"},
		{"/addtime 09:00", "addtime", "09:00"},
		{"/addtime   09:00  ", "addtime", "09:00"},
		{"/help@PromoBot", "help", ""},
		{"/help@PromoBot now", "help", "now"},
		{"/HELP", "help", ""},
		{"/", "", ""},
	}
	for _, tc := range cases {
		name, args := splitCommand(tc.input)
		assert.Equal(t, tc.wantName, name, "input %q", tc.input)
		assert.Equal(t, tc.wantArgs, args, "input %q", tc.input)
	}
}
