package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yusufkecer/body-score-backend/internal/config"
)

var _ = Describe("Load", func() {
	It("falls back to defaults", func() {
		GinkgoT().Setenv("DB_HOST", "")
		GinkgoT().Setenv("PROFILE_CACHE_TTL", "")
		GinkgoT().Setenv("ACQUISITION_CONCURRENCY", "")

		cfg := config.Load()
		Expect(cfg.DBHost).To(Equal("localhost"))
		Expect(cfg.ProfileCacheTTL).To(Equal(15 * time.Minute))
		Expect(cfg.AcquisitionConcurrency).To(Equal(4))
	})

	It("reads overrides from the environment", func() {
		GinkgoT().Setenv("DB_HOST", "db.internal")
		GinkgoT().Setenv("PROFILE_CACHE_TTL", "90s")
		GinkgoT().Setenv("ACQUISITION_CONCURRENCY", "8")

		cfg := config.Load()
		Expect(cfg.DBHost).To(Equal("db.internal"))
		Expect(cfg.ProfileCacheTTL).To(Equal(90 * time.Second))
		Expect(cfg.AcquisitionConcurrency).To(Equal(8))
	})

	It("ignores malformed numbers", func() {
		GinkgoT().Setenv("ACQUISITION_CONCURRENCY", "lots")
		Expect(config.Load().AcquisitionConcurrency).To(Equal(4))
	})

	It("reads the metrics exporter settings", func() {
		GinkgoT().Setenv("METRICS_OTLP_ADDRESS", "collector:4317")
		GinkgoT().Setenv("METRICS_OTLP_HEADERS", "authorization=Bearer abc, x-tenant = body ,broken")
		GinkgoT().Setenv("METRICS_OTLP_USE_TLS", "true")

		cfg := config.Load()
		Expect(cfg.MetricsOTLPAddress).To(Equal("collector:4317"))
		Expect(cfg.MetricsOTLPHeaders).To(Equal(map[string]string{
			"authorization": "Bearer abc",
			"x-tenant":      "body",
		}))
		Expect(cfg.MetricsOTLPUseTLS).To(BeTrue())
	})

	It("leaves metrics export off by default", func() {
		GinkgoT().Setenv("METRICS_OTLP_ADDRESS", "")
		GinkgoT().Setenv("METRICS_OTLP_HEADERS", "")
		GinkgoT().Setenv("METRICS_OTLP_USE_TLS", "maybe")

		cfg := config.Load()
		Expect(cfg.MetricsOTLPAddress).To(BeEmpty())
		Expect(cfg.MetricsOTLPHeaders).To(BeEmpty())
		Expect(cfg.MetricsOTLPUseTLS).To(BeFalse())
	})

	It("reads the trusted proxies", func() {
		GinkgoT().Setenv("TRUSTED_PROXIES", "10.0.0.0/8,192.0.2.10")
		Expect(config.Load().TrustedProxies).To(Equal("10.0.0.0/8,192.0.2.10"))
	})

	It("builds the MySQL DSN", func() {
		cfg := &config.Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "n"}
		Expect(cfg.DSN()).To(Equal("u:p@tcp(h:3306)/n?parseTime=true&charset=utf8mb4"))
	})
})
