package log

import (
	"testing"
)

func TestSetup(t *testing.T) {
	Setup(LevelDebug, false)
	Debugf("debug %d", 1)
	Infof("info %s", "msg")
	Warn("warn", "key", "value")
	Error("error", "key", "value")
}

func TestLvl(t *testing.T) {
	if Lvl(-1) != LevelCrit {
		t.Errorf("want clamp to crit")
	}
	if Lvl(100) != LevelDebug {
		t.Errorf("want clamp to debug")
	}
	if Lvl(3) != LevelInfo {
		t.Errorf("want info")
	}
}
