package assert

import "fmt"

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}

// InRange panics unless lo <= n <= hi.
func InRange(n, lo, hi int) {
	if n < lo || n > hi {
		panic(fmt.Sprintf("expected %d to be within [%d, %d]", n, lo, hi))
	}
}
