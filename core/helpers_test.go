package core

import glog "github.com/goliatone/go-logger/glog"

func newTestLogger() Logger {
	return glog.Nop()
}
