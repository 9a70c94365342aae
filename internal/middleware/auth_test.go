package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yusufkecer/body-score-backend/internal/middleware"
)

var _ = Describe("AuthMiddleware", func() {
	const secret = "s3cret"

	var (
		clock   *fakeclock.FakeClock
		handler http.Handler
		seen    int64
	)

	BeforeEach(func() {
		seen = 0
		clock = fakeclock.NewFakeClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
		handler = middleware.AuthMiddleware(secret, clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = middleware.AccountIDFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))
	})

	serve := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	It("puts the account id on the request context", func() {
		token, err := middleware.GenerateToken(7, "a@b.co", secret, clock.Now())
		Expect(err).NotTo(HaveOccurred())

		rec := serve("Bearer " + token)
		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(seen).To(Equal(int64(7)))
	})

	It("rejects a missing header", func() {
		rec := serve("")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"missing authorization header"}`))
	})

	It("rejects a non-bearer header", func() {
		Expect(serve("Basic abc").Code).To(Equal(http.StatusUnauthorized))
	})

	It("checks expiry against the injected clock", func() {
		token, err := middleware.GenerateToken(7, "a@b.co", secret, clock.Now())
		Expect(err).NotTo(HaveOccurred())

		clock.Increment(29 * 24 * time.Hour)
		Expect(serve("Bearer " + token).Code).To(Equal(http.StatusNoContent))

		clock.Increment(2 * 24 * time.Hour)
		Expect(serve("Bearer " + token).Code).To(Equal(http.StatusUnauthorized))
	})

	It("accepts tokens that are valid at clock time even when wall time has moved on", func() {
		clock = fakeclock.NewFakeClock(time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC))
		handler = middleware.AuthMiddleware(secret, clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		token, err := middleware.GenerateToken(7, "a@b.co", secret, clock.Now())
		Expect(err).NotTo(HaveOccurred())
		Expect(serve("Bearer " + token).Code).To(Equal(http.StatusNoContent))
	})

	It("rejects tokens signed with another secret", func() {
		token, err := middleware.GenerateToken(7, "a@b.co", "other", clock.Now())
		Expect(err).NotTo(HaveOccurred())
		Expect(serve("Bearer " + token).Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects unsigned tokens", func() {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"account_id": 7}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())
		Expect(serve("Bearer " + token).Code).To(Equal(http.StatusUnauthorized))
		Expect(seen).To(BeZero())
	})
})

var _ = Describe("APIKeyMiddleware", func() {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	It("passes everything through when no key is configured", func() {
		rec := httptest.NewRecorder()
		middleware.APIKeyMiddleware("")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("requires the configured key", func() {
		h := middleware.APIKeyMiddleware("k")(ok)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", "wrong")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"invalid API key"}`))

		req.Header.Set("X-API-Key", "k")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})
