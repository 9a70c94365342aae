package acquisition_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yusufkecer/body-score-backend/internal/acquisition"
	"github.com/yusufkecer/body-score-backend/internal/domain"
)

func ids(readings []domain.Reading) []string {
	out := make([]string, 0, len(readings))
	for _, r := range readings {
		out = append(out, r.ID)
	}
	return out
}

func valueOf(readings []domain.Reading, id string) float64 {
	for _, r := range readings {
		if r.ID == id {
			return r.Value
		}
	}
	Fail("missing reading " + id)
	return 0
}

var _ = Describe("Derive", func() {
	profile := domain.NewProfile(30, domain.SexMale, 2.0)

	It("derives BMI from body mass and height", func() {
		out := acquisition.Derive([]domain.Reading{domain.NewReading(domain.MetricBodyMass, 80)}, profile)
		Expect(ids(out)).To(ConsistOf(domain.MetricBMI))
		Expect(valueOf(out, domain.MetricBMI)).To(BeNumerically("~", 20, 1e-9))
	})

	It("prefers a direct BMI reading", func() {
		out := acquisition.Derive([]domain.Reading{
			domain.NewReading(domain.MetricBMI, 24),
			domain.NewReading(domain.MetricBodyMass, 80),
		}, profile)
		Expect(ids(out)).To(ConsistOf(domain.MetricBMI))
		Expect(valueOf(out, domain.MetricBMI)).To(Equal(24.0))
	})

	It("cannot derive BMI without height", func() {
		out := acquisition.Derive([]domain.Reading{domain.NewReading(domain.MetricBodyMass, 80)}, domain.NewProfile(30, domain.SexMale, 0))
		Expect(out).To(BeEmpty())
	})

	It("derives BMR with Katch-McArdle from lean body mass", func() {
		out := acquisition.Derive([]domain.Reading{domain.NewReading(domain.MetricLeanBodyMass, 60)}, profile)
		Expect(ids(out)).To(ConsistOf(domain.MetricLeanBodyMass, domain.MetricBMR))
		Expect(valueOf(out, domain.MetricBMR)).To(BeNumerically("~", 370+21.6*60, 1e-9))
	})

	It("keeps a direct BMR reading", func() {
		out := acquisition.Derive([]domain.Reading{
			domain.NewReading(domain.MetricLeanBodyMass, 60),
			domain.NewReading(domain.MetricBMR, 1500),
		}, profile)
		Expect(valueOf(out, domain.MetricBMR)).To(Equal(1500.0))
		Expect(out).To(HaveLen(2))
	})
})
