package nutrition

import "math"

// activityFactors scales BMR into total daily energy expenditure.
var activityFactors = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// BMR computes the basal metabolic rate using the Mifflin-St Jeor formula.
func BMR(profile UserProfile) float64 {
	base := 10*profile.WeightKg + 6.25*profile.HeightCm - 5*float64(profile.Age)
	if profile.Gender == "male" {
		return base + 5
	}
	return base - 161
}

// TargetCalories converts a profile into a daily calorie target: BMR scaled
// by the activity factor, then adjusted for the stated goal. Pathological
// inputs can yield a non-positive result; callers own that check.
func TargetCalories(profile UserProfile) int {
	factor, ok := activityFactors[profile.ActivityLevel]
	if !ok {
		factor = 1.2
	}
	tdee := BMR(profile) * factor

	switch profile.Goal {
	case GoalWeightLoss:
		tdee -= 500
	case GoalMuscleGain:
		tdee += 300
	}

	return int(math.Round(tdee))
}

// MacroSplit is the per-meal calorie and macro allocation derived from a
// daily target. Protein/carb/fat grams follow a fixed 25/45/30 percent
// split at 4/4/9 kcal per gram, so macros always sum consistently with the
// stated calories.
type MacroSplit struct {
	Calories int
	ProteinG float64
	CarbsG   float64
	FatG     float64
}

// SplitCalories evenly apportions a daily calorie target across meals.
func SplitCalories(dailyCalories, mealsPerDay int) MacroSplit {
	if mealsPerDay < 1 {
		mealsPerDay = 1
	}
	perMeal := float64(dailyCalories) / float64(mealsPerDay)
	return MacroSplit{
		Calories: int(math.Round(perMeal)),
		ProteinG: perMeal * 0.25 / 4,
		CarbsG:   perMeal * 0.45 / 4,
		FatG:     perMeal * 0.30 / 9,
	}
}
