package logger

import "fmt"

func fmtDetail(detail string, args ...any) string {
	if len(args) == 0 {
		return detail
	}
	return fmt.Sprintf(detail, args...)
}
