package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const operatorKey ctxKey = "operator"

// OperatorHeader identifica al usuario del panel que hace el cambio. No es
// autenticación: solo queda en los logs.
const OperatorHeader = "X-Operator-ID"

func Operator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if op := strings.TrimSpace(r.Header.Get(OperatorHeader)); op != "" {
			r = r.WithContext(WithOperator(r.Context(), op))
		}
		next.ServeHTTP(w, r)
	})
}

func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorKey, operator)
}

func GetOperator(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(operatorKey).(string)
	return v, ok && v != ""
}
