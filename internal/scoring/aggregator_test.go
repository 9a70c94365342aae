package scoring_test

import (
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yusufkecer/body-score-backend/internal/domain"
	"github.com/yusufkecer/body-score-backend/internal/scoring"
)

func metric(c domain.Category, score float64) domain.Metric {
	return domain.NewMetric("m", c, 0, score)
}

var _ = Describe("CategoryScores", func() {
	It("averages scores and scales by 100 and the weight", func() {
		prefs := domain.DefaultPreferences().UpdateWeight(domain.CategoryBodyComposition, 1.5)
		scores := scoring.CategoryScores([]domain.Metric{metric(domain.CategoryBodyComposition, 0.8)}, prefs.Weights)
		Expect(scores).To(HaveLen(1))
		Expect(scores[domain.CategoryBodyComposition]).To(BeNumerically("~", 120, 1e-9))
	})

	It("averages duplicate ids instead of deduplicating them", func() {
		metrics := []domain.Metric{
			domain.NewMetric(domain.MetricBMI, domain.CategoryBodyComposition, 22, 0.9),
			domain.NewMetric(domain.MetricBMI, domain.CategoryBodyComposition, 31, 0.5),
		}
		scores := scoring.CategoryScores(metrics, domain.DefaultPreferences().Weights)
		Expect(scores[domain.CategoryBodyComposition]).To(BeNumerically("~", 70, 1e-9))
	})

	It("leaves categories without metrics out of the map", func() {
		scores := scoring.CategoryScores([]domain.Metric{metric(domain.CategoryFitness, 0)}, domain.DefaultPreferences().Weights)
		Expect(scores).To(HaveKeyWithValue(domain.CategoryFitness, 0.0))
		Expect(scores).NotTo(HaveKey(domain.CategoryBodyComposition))
	})
})

var _ = Describe("Confidence", func() {
	weights := domain.DefaultPreferences().Weights

	It("is zero without data", func() {
		Expect(scoring.Confidence(map[domain.Category]int{}, weights)).To(Equal(0.0))
	})

	It("is 100 when every category is complete", func() {
		counts := map[domain.Category]int{}
		for _, c := range domain.AllCategories {
			counts[c] = scoring.IdealMetricCount(c)
		}
		Expect(scoring.Coverage(counts, weights)).To(BeNumerically("~", 100, 1e-9))
		Expect(scoring.Completeness(counts, weights)).To(BeNumerically("~", 100, 1e-9))
		Expect(scoring.Confidence(counts, weights)).To(BeNumerically("~", 100, 1e-9))
	})

	It("caps density at the ideal count", func() {
		counts := map[domain.Category]int{domain.CategoryLifestyle: 10}
		// lifestyle weighs 0.8 out of a 4.8 total
		Expect(scoring.Completeness(counts, weights)).To(BeNumerically("~", 0.8/4.8*100, 1e-9))
	})

	It("blends coverage and completeness 70/30", func() {
		counts := map[domain.Category]int{domain.CategoryHeartAndVitals: 2}
		coverage := 1.0 / 4.8 * 100
		completeness := 0.5 / 4.8 * 100
		Expect(scoring.Confidence(counts, weights)).To(BeNumerically("~", coverage*0.7+completeness*0.3, 1e-9))
	})
})

var _ = Describe("Engine", func() {
	var (
		now    time.Time
		engine *scoring.Engine
		prefs  domain.Preferences
	)

	BeforeEach(func() {
		now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		engine = scoring.NewEngine(scoring.DefaultRegistry(), fakeclock.NewFakeClock(now))
		prefs = domain.DefaultPreferences()
	})

	Describe("Aggregate", func() {
		It("returns zero scores and an empty map for an empty batch", func() {
			snapshot := engine.Aggregate(nil, prefs)
			Expect(snapshot.BodyScore).To(Equal(0.0))
			Expect(snapshot.ConfidenceScore).To(Equal(0.0))
			Expect(snapshot.CategoryScores).NotTo(BeNil())
			Expect(snapshot.CategoryScores).To(BeEmpty())
		})

		It("divides by the available weight exactly once", func() {
			prefs = prefs.UpdateWeight(domain.CategoryBodyComposition, 1.5)
			snapshot := engine.Aggregate([]domain.Metric{metric(domain.CategoryBodyComposition, 0.8)}, prefs)

			Expect(snapshot.CategoryScores[domain.CategoryBodyComposition]).To(BeNumerically("~", 120, 1e-9))
			Expect(snapshot.BodyScore).To(BeNumerically("~", 80, 1e-9))
		})

		It("takes the weighted mean across available categories", func() {
			snapshot := engine.Aggregate([]domain.Metric{
				metric(domain.CategoryBodyComposition, 0.9),
				metric(domain.CategoryFitness, 0.6),
			}, prefs)

			Expect(snapshot.BodyScore).To(BeNumerically("~", 75, 1e-9))
			Expect(snapshot.CategoryScores).To(HaveLen(2))
		})

		It("computes the confidence score from coverage and completeness", func() {
			prefs = prefs.UpdateWeight(domain.CategoryBodyComposition, 1.5)
			snapshot := engine.Aggregate([]domain.Metric{metric(domain.CategoryBodyComposition, 0.8)}, prefs)

			total := 1.5 + 1 + 1 + 1 + 0.8
			coverage := 1.5 / total * 100
			completeness := (1.0 / 3.0 * 1.5) / total * 100
			Expect(snapshot.ConfidenceScore).To(BeNumerically("~", coverage*0.7+completeness*0.3, 1e-9))
		})

		It("treats a zero score differently from missing data", func() {
			withZero := engine.Aggregate([]domain.Metric{
				metric(domain.CategoryBodyComposition, 0.8),
				metric(domain.CategoryFitness, 0.0),
			}, prefs)
			withoutFitness := engine.Aggregate([]domain.Metric{
				metric(domain.CategoryBodyComposition, 0.8),
			}, prefs)

			Expect(withZero.CategoryScores).To(HaveKeyWithValue(domain.CategoryFitness, 0.0))
			Expect(withoutFitness.CategoryScores).NotTo(HaveKey(domain.CategoryFitness))
			Expect(withZero.BodyScore).To(BeNumerically("~", 40, 1e-9))
			Expect(withoutFitness.BodyScore).To(BeNumerically("~", 80, 1e-9))
		})

		It("is idempotent apart from identity and time", func() {
			batch := []domain.Metric{
				metric(domain.CategoryBodyComposition, 0.7),
				metric(domain.CategoryHeartAndVitals, 0.9),
				metric(domain.CategoryHeartAndVitals, 0.4),
				metric(domain.CategoryLifestyle, 1.0),
			}
			first := engine.Aggregate(batch, prefs)
			second := engine.Aggregate(batch, prefs)

			Expect(second.BodyScore).To(Equal(first.BodyScore))
			Expect(second.ConfidenceScore).To(Equal(first.ConfidenceScore))
			Expect(second.CategoryScores).To(Equal(first.CategoryScores))
			Expect(second.ID).NotTo(Equal(first.ID))
		})

		It("never lowers confidence when an empty category gains a metric", func() {
			batch := []domain.Metric{metric(domain.CategoryFitness, 0.5)}
			before := engine.Aggregate(batch, prefs).ConfidenceScore

			for _, c := range domain.AllCategories {
				if c == domain.CategoryFitness {
					continue
				}
				batch = append(batch, metric(c, 0.1))
				after := engine.Aggregate(batch, prefs).ConfidenceScore
				Expect(after).To(BeNumerically(">=", before), string(c))
				before = after
			}
		})

		It("stamps the snapshot with the clock and preferences version", func() {
			prefs = prefs.UpdateWeight(domain.CategoryFitness, 1.2)
			snapshot := engine.Aggregate([]domain.Metric{metric(domain.CategoryFitness, 0.5)}, prefs)
			Expect(snapshot.Timestamp).To(Equal(now))
			Expect(snapshot.PreferencesVersion).To(Equal(int64(1)))
		})
	})

	Describe("Score", func() {
		It("normalizes readings before aggregating", func() {
			readings := []domain.Reading{
				domain.NewReading(domain.MetricBMI, 22),
				domain.NewReading(domain.MetricSleep, 8),
				domain.NewReading("unknown", 1),
			}

			snapshot, skipped := engine.Score(unknownProfile, readings, prefs)

			Expect(skipped).To(HaveLen(1))
			Expect(snapshot.CategoryScores).To(HaveKeyWithValue(domain.CategoryBodyComposition, 100.0))
			Expect(snapshot.CategoryScores[domain.CategoryLifestyle]).To(BeNumerically("~", 80, 1e-9))
			// (100 + 80) / (1.0 + 0.8)
			Expect(snapshot.BodyScore).To(BeNumerically("~", 100, 1e-9))
		})
	})
})
