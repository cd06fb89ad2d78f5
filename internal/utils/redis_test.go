package utils

import "testing"

func TestBlacklistKey(t *testing.T) {
	if got := blacklistKey("aaa.bbb.ccc"); got != "blacklist:aaa.bbb.ccc" {
		t.Errorf("blacklistKey = %q, want blacklist:aaa.bbb.ccc", got)
	}
}
