package nutritionagent

import (
	"fmt"
	"runtime"

	"github.com/davecgh/go-spew/spew"
)

// Dump pretty-prints values with their call site, for throwaway debugging.
func Dump(v ...any) {
	_, file, line, _ := runtime.Caller(1)
	spew.Dump(append([]any{fmt.Sprintf("%s:%d:", file, line)}, v...)...)
}
