package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yusufkecer/body-score-backend/internal/middleware"
)

var _ = Describe("CORSMiddleware", func() {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	serve := func(allowed, method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/v1/scores", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		rec := httptest.NewRecorder()
		middleware.CORSMiddleware(allowed)(ok).ServeHTTP(rec, req)
		return rec
	}

	It("echoes listed origins only", func() {
		rec := serve("https://app.example.com, https://admin.example.com", http.MethodGet, "https://admin.example.com")
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://admin.example.com"))

		rec = serve("https://app.example.com", http.MethodGet, "https://evil.example.com")
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("answers preflight requests without calling the handler", func() {
		rec := serve("*", http.MethodOptions, "https://app.example.com")
		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(rec.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("PATCH"))
	})
})

var _ = Describe("BodyLimit", func() {
	It("stops reading past one mebibyte", func() {
		var readErr error
		h := middleware.BodyLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))

		body := strings.NewReader(strings.Repeat("x", 1<<20+1))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", body))
		Expect(readErr).To(HaveOccurred())
	})
})

var _ = Describe("SecurityHeaders", func() {
	It("sets the hardening headers", func() {
		rec := httptest.NewRecorder()
		middleware.SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get("X-Frame-Options")).To(Equal("DENY"))
		Expect(rec.Header().Get("Cache-Control")).To(Equal("no-store"))
	})
})
