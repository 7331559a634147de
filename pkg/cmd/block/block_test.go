package block

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestParsePID(t *testing.T) {
	tests := []struct {
		input string
		pid   int32
		isPID bool
	}{
		{input: "4242", pid: 4242, isPID: true},
		{input: " 17 ", pid: 17, isPID: true},
		{input: "0"},
		{input: "-5"},
		{input: `C:\Apps\Foo\foo.exe`},
		{input: "123abc"},
		{input: "99999999999"},
		{input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pid, isPID := ParsePID(tt.input)
			assert.Equal(t, tt.isPID, isPID)
			assert.Equal(t, tt.pid, pid)
		})
	}
}
