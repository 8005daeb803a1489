package core

import "testing"

func TestNoopLogger(t *testing.T) {
	logger := noopLogger{}
	calls := map[string]func(string, ...any){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
		"error": logger.Error,
	}
	for level, fn := range calls {
		t.Run(level, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("%s panicked: %v", level, r)
				}
			}()
			fn("test message", "arg1", "arg2")
		})
	}
}
