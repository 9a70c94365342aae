package domain_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

var _ = Describe("Preferences", func() {
	var prefs domain.Preferences

	BeforeEach(func() {
		prefs = domain.DefaultPreferences()
	})

	It("starts from the default preset", func() {
		Expect(prefs.Preset).To(Equal(domain.PresetDefault))
		Expect(prefs.Version).To(BeZero())
		Expect(prefs.Weight(domain.CategoryBodyComposition)).To(Equal(1.0))
		Expect(prefs.Weight(domain.CategoryLifestyle)).To(Equal(0.8))
	})

	Describe("UpdateWeight", func() {
		It("clamps weights above the maximum", func() {
			updated := prefs.UpdateWeight(domain.CategoryFitness, 5.0)
			Expect(updated.Weight(domain.CategoryFitness)).To(Equal(2.0))
		})

		It("clamps weights below the minimum", func() {
			updated := prefs.UpdateWeight(domain.CategoryFitness, -3.0)
			Expect(updated.Weight(domain.CategoryFitness)).To(Equal(0.1))
		})

		It("treats NaN as the minimum", func() {
			updated := prefs.UpdateWeight(domain.CategoryFitness, math.NaN())
			Expect(updated.Weight(domain.CategoryFitness)).To(Equal(0.1))
		})

		It("returns a new version and leaves the original untouched", func() {
			updated := prefs.UpdateWeight(domain.CategoryMetabolic, 1.7)
			Expect(updated.Version).To(Equal(prefs.Version + 1))
			Expect(prefs.Weight(domain.CategoryMetabolic)).To(Equal(1.0))
		})

		It("marks the vector as custom", func() {
			updated := prefs.UpdateWeight(domain.CategoryMetabolic, 1.7)
			Expect(updated.Preset).To(Equal(domain.PresetCustom))
			Expect(prefs.Preset).To(Equal(domain.PresetDefault))
		})

		It("ignores unknown categories", func() {
			updated := prefs.UpdateWeight(domain.Category("mood"), 1.5)
			Expect(updated).To(Equal(prefs))
		})
	})

	Describe("ApplyPreset", func() {
		It("replaces every weight with the preset vector", func() {
			updated, err := prefs.ApplyPreset(domain.PresetWeightLoss)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Preset).To(Equal(domain.PresetWeightLoss))
			Expect(updated.Version).To(Equal(int64(1)))
			Expect(updated.Weight(domain.CategoryBodyComposition)).To(Equal(2.0))
		})

		It("rejects unknown presets", func() {
			_, err := prefs.ApplyPreset("marathon")
			Expect(err).To(MatchError(ContainSubstring("unknown preset")))
		})

		It("cannot apply the custom marker", func() {
			_, err := prefs.ApplyPreset(domain.PresetCustom)
			Expect(err).To(HaveOccurred())
			Expect(domain.PresetNames()).NotTo(ContainElement(domain.PresetCustom))
		})
	})

	It("keeps every preset within [0.5, 2.0]", func() {
		for _, name := range domain.PresetNames() {
			weights, ok := domain.Preset(name)
			Expect(ok).To(BeTrue())
			for _, c := range domain.AllCategories {
				Expect(weights.Weight(c)).To(And(BeNumerically(">=", 0.5), BeNumerically("<=", 2.0)), "%s/%s", name, c)
			}
		}
	})

	It("hands out copies of presets", func() {
		weights, _ := domain.Preset(domain.PresetDefault)
		weights[domain.CategoryFitness] = 0.1

		fresh, _ := domain.Preset(domain.PresetDefault)
		Expect(fresh.Weight(domain.CategoryFitness)).To(Equal(1.0))
	})

	It("normalizes stored weights", func() {
		stored := domain.Preferences{Weights: domain.CategoryWeights{domain.CategoryFitness: 9}}
		normalized := stored.Normalized()
		Expect(normalized.Weights).To(HaveLen(5))
		Expect(normalized.Weight(domain.CategoryFitness)).To(Equal(2.0))
		Expect(normalized.Weight(domain.CategoryLifestyle)).To(Equal(0.8))
	})
})
