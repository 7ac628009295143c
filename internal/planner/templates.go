package planner

import (
	"diet-planner/internal/nutrition"
)

// MealTemplate is one entry of the fallback recipe library. Calorie and macro
// values are not stored here; they are derived from the user's daily target at
// plan build time so that stated calories and macros always agree.
type MealTemplate struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	MealType     nutrition.MealType `json:"meal_type"`
	Ingredients  []Ingredient       `json:"ingredients"`
	Instructions []string           `json:"instructions"`
	PrepTime     int                `json:"prep_time"`
	CookTime     int                `json:"cook_time"`
	Difficulty   string             `json:"difficulty"`
	Tags         []string           `json:"tags"`
	CuisineType  string             `json:"cuisine_type"`
}

// TemplateLibrary is an immutable per-meal-type index of templates. Selection
// by day index wraps around the list, giving deterministic variety across the
// week without repetition pressure on small libraries.
type TemplateLibrary struct {
	byType map[nutrition.MealType][]MealTemplate
}

// NewTemplateLibrary builds a library from the built-in templates plus any
// extra entries (e.g. loaded from the template store). Extras with an
// unrecognized meal type are dropped. The library must not be mutated after
// construction.
func NewTemplateLibrary(extra ...MealTemplate) *TemplateLibrary {
	byType := make(map[nutrition.MealType][]MealTemplate)
	for _, t := range builtinTemplates {
		byType[t.MealType] = append(byType[t.MealType], t)
	}
	for _, t := range extra {
		if !nutrition.KnownMealType(t.MealType) {
			continue
		}
		byType[t.MealType] = append(byType[t.MealType], t)
	}
	return &TemplateLibrary{byType: byType}
}

// Select returns the template for the given meal type and zero-based day
// index, cycling through the list.
func (l *TemplateLibrary) Select(mealType nutrition.MealType, dayIndex int) MealTemplate {
	list := l.byType[mealType]
	if len(list) == 0 {
		// Snack templates back any meal type that somehow has none.
		list = l.byType[nutrition.MealSnack]
	}
	return list[dayIndex%len(list)]
}

// Count returns the number of templates registered for a meal type.
func (l *TemplateLibrary) Count(mealType nutrition.MealType) int {
	return len(l.byType[mealType])
}

var builtinTemplates = []MealTemplate{
	// Breakfast
	{
		Name:        "Oatmeal with Greek Yogurt and Berries",
		Description: "Slow-cooked oats topped with creamy yogurt, fresh berries and toasted almonds.",
		MealType:    nutrition.MealBreakfast,
		Ingredients: []Ingredient{
			{Name: "rolled oats", Amount: 60, Unit: "g"},
			{Name: "greek yogurt", Amount: 150, Unit: "g"},
			{Name: "mixed berries", Amount: 100, Unit: "g"},
			{Name: "almonds", Amount: 20, Unit: "g"},
		},
		Instructions: []string{
			"Simmer the oats in water for 5 minutes, stirring occasionally.",
			"Spoon into a bowl and top with greek yogurt.",
			"Finish with berries and toasted almonds.",
		},
		PrepTime: 5, CookTime: 10, Difficulty: "easy",
		Tags: []string{"high-fiber", "vegetarian"}, CuisineType: "international",
	},
	{
		Name:        "Vegetable Omelette with Whole-Grain Toast",
		Description: "Three-egg omelette with spinach, tomato and peppers, served with toast.",
		MealType:    nutrition.MealBreakfast,
		Ingredients: []Ingredient{
			{Name: "eggs", Amount: 3, Unit: "pcs"},
			{Name: "spinach", Amount: 50, Unit: "g"},
			{Name: "tomato", Amount: 1, Unit: "pcs"},
			{Name: "whole-grain bread", Amount: 2, Unit: "slices"},
		},
		Instructions: []string{
			"Whisk the eggs with a pinch of salt and pepper.",
			"Saute the vegetables until soft, then pour in the eggs.",
			"Fold the omelette once set and serve with toasted bread.",
		},
		PrepTime: 10, CookTime: 10, Difficulty: "easy",
		Tags: []string{"high-protein", "vegetarian"}, CuisineType: "international",
	},
	{
		Name:        "Banana Peanut Butter Smoothie Bowl",
		Description: "Thick blended smoothie of banana, oats and peanut butter topped with seeds.",
		MealType:    nutrition.MealBreakfast,
		Ingredients: []Ingredient{
			{Name: "banana", Amount: 1, Unit: "pcs"},
			{Name: "rolled oats", Amount: 40, Unit: "g"},
			{Name: "peanut butter", Amount: 25, Unit: "g"},
			{Name: "milk", Amount: 200, Unit: "ml"},
			{Name: "chia seeds", Amount: 10, Unit: "g"},
		},
		Instructions: []string{
			"Blend banana, oats, peanut butter and milk until smooth.",
			"Pour into a bowl and sprinkle with chia seeds.",
		},
		PrepTime: 5, CookTime: 0, Difficulty: "easy",
		Tags: []string{"quick", "vegetarian"}, CuisineType: "american",
	},
	{
		Name:        "Cottage Cheese Pancakes",
		Description: "Light pancakes of cottage cheese and oats, served with fresh fruit.",
		MealType:    nutrition.MealBreakfast,
		Ingredients: []Ingredient{
			{Name: "cottage cheese", Amount: 180, Unit: "g"},
			{Name: "rolled oats", Amount: 50, Unit: "g"},
			{Name: "eggs", Amount: 2, Unit: "pcs"},
			{Name: "apple", Amount: 1, Unit: "pcs"},
		},
		Instructions: []string{
			"Blend cottage cheese, oats and eggs into a batter.",
			"Cook small pancakes on a non-stick pan, 2-3 minutes per side.",
			"Serve with sliced apple.",
		},
		PrepTime: 10, CookTime: 15, Difficulty: "medium",
		Tags: []string{"high-protein", "vegetarian"}, CuisineType: "international",
	},
	{
		Name:        "Avocado Toast with Poached Egg",
		Description: "Smashed avocado on whole-grain toast with a poached egg and chili flakes.",
		MealType:    nutrition.MealBreakfast,
		Ingredients: []Ingredient{
			{Name: "whole-grain bread", Amount: 2, Unit: "slices"},
			{Name: "avocado", Amount: 0.5, Unit: "pcs"},
			{Name: "eggs", Amount: 1, Unit: "pcs"},
			{Name: "lemon juice", Amount: 5, Unit: "ml"},
		},
		Instructions: []string{
			"Toast the bread and mash the avocado with lemon juice.",
			"Poach the egg for 3 minutes in barely simmering water.",
			"Assemble and season with chili flakes.",
		},
		PrepTime: 5, CookTime: 5, Difficulty: "medium",
		Tags: []string{"healthy-fats", "vegetarian"}, CuisineType: "international",
	},

	// Lunch
	{
		Name:        "Grilled Chicken with Brown Rice and Broccoli",
		Description: "Seasoned chicken breast with steamed broccoli and nutty brown rice.",
		MealType:    nutrition.MealLunch,
		Ingredients: []Ingredient{
			{Name: "chicken breast", Amount: 150, Unit: "g"},
			{Name: "brown rice", Amount: 180, Unit: "g"},
			{Name: "broccoli", Amount: 150, Unit: "g"},
			{Name: "olive oil", Amount: 10, Unit: "ml"},
		},
		Instructions: []string{
			"Season the chicken with salt, pepper and garlic powder.",
			"Grill for 6-7 minutes per side until cooked through.",
			"Steam the broccoli and serve everything over the rice.",
		},
		PrepTime: 10, CookTime: 25, Difficulty: "easy",
		Tags: []string{"high-protein", "meal-prep"}, CuisineType: "american",
	},
	{
		Name:        "Mediterranean Quinoa Salad",
		Description: "Quinoa with cucumber, tomato, olives, feta and a lemon dressing.",
		MealType:    nutrition.MealLunch,
		Ingredients: []Ingredient{
			{Name: "quinoa", Amount: 80, Unit: "g"},
			{Name: "cucumber", Amount: 100, Unit: "g"},
			{Name: "cherry tomatoes", Amount: 100, Unit: "g"},
			{Name: "feta cheese", Amount: 50, Unit: "g"},
			{Name: "olives", Amount: 30, Unit: "g"},
		},
		Instructions: []string{
			"Cook the quinoa and let it cool.",
			"Chop the vegetables and combine with olives and feta.",
			"Dress with lemon juice and olive oil, toss well.",
		},
		PrepTime: 15, CookTime: 15, Difficulty: "easy",
		Tags: []string{"vegetarian", "fresh"}, CuisineType: "mediterranean",
	},
	{
		Name:        "Turkey and Avocado Wrap",
		Description: "Whole-wheat wrap with lean turkey, avocado and crunchy vegetables.",
		MealType:    nutrition.MealLunch,
		Ingredients: []Ingredient{
			{Name: "whole-wheat tortilla", Amount: 1, Unit: "pcs"},
			{Name: "turkey breast", Amount: 120, Unit: "g"},
			{Name: "avocado", Amount: 0.5, Unit: "pcs"},
			{Name: "lettuce", Amount: 40, Unit: "g"},
			{Name: "tomato", Amount: 1, Unit: "pcs"},
		},
		Instructions: []string{
			"Spread the mashed avocado over the tortilla.",
			"Layer turkey, lettuce and sliced tomato.",
			"Roll tightly and slice in half.",
		},
		PrepTime: 10, CookTime: 0, Difficulty: "easy",
		Tags: []string{"quick", "high-protein"}, CuisineType: "american",
	},
	{
		Name:        "Salmon Teriyaki Rice Bowl",
		Description: "Pan-seared salmon glazed with teriyaki over rice and steamed greens.",
		MealType:    nutrition.MealLunch,
		Ingredients: []Ingredient{
			{Name: "salmon fillet", Amount: 140, Unit: "g"},
			{Name: "white rice", Amount: 150, Unit: "g"},
			{Name: "green beans", Amount: 100, Unit: "g"},
			{Name: "teriyaki sauce", Amount: 20, Unit: "ml"},
		},
		Instructions: []string{
			"Sear the salmon skin-side down for 4 minutes.",
			"Flip, glaze with teriyaki and cook 3 more minutes.",
			"Serve over rice with steamed green beans.",
		},
		PrepTime: 10, CookTime: 15, Difficulty: "medium",
		Tags: []string{"omega-3"}, CuisineType: "japanese",
	},
	{
		Name:        "Chickpea and Spinach Curry",
		Description: "Mild coconut curry of chickpeas and spinach served with basmati rice.",
		MealType:    nutrition.MealLunch,
		Ingredients: []Ingredient{
			{Name: "chickpeas", Amount: 200, Unit: "g"},
			{Name: "spinach", Amount: 100, Unit: "g"},
			{Name: "coconut milk", Amount: 150, Unit: "ml"},
			{Name: "basmati rice", Amount: 150, Unit: "g"},
			{Name: "curry paste", Amount: 20, Unit: "g"},
		},
		Instructions: []string{
			"Fry the curry paste briefly, then add coconut milk.",
			"Add chickpeas and simmer for 10 minutes.",
			"Stir in the spinach until wilted and serve with rice.",
		},
		PrepTime: 10, CookTime: 20, Difficulty: "easy",
		Tags: []string{"vegan", "high-fiber"}, CuisineType: "indian",
	},

	// Dinner
	{
		Name:        "Baked Salmon with Sweet Potato and Spinach",
		Description: "Oven-baked salmon with roasted sweet potato wedges and wilted spinach.",
		MealType:    nutrition.MealDinner,
		Ingredients: []Ingredient{
			{Name: "salmon fillet", Amount: 150, Unit: "g"},
			{Name: "sweet potato", Amount: 200, Unit: "g"},
			{Name: "spinach", Amount: 100, Unit: "g"},
			{Name: "olive oil", Amount: 10, Unit: "ml"},
		},
		Instructions: []string{
			"Roast sweet potato wedges at 200C for 25 minutes.",
			"Bake the salmon for the final 12 minutes.",
			"Wilt the spinach in a pan and plate together.",
		},
		PrepTime: 10, CookTime: 30, Difficulty: "easy",
		Tags: []string{"omega-3", "gluten-free"}, CuisineType: "international",
	},
	{
		Name:        "Lean Beef Stir-Fry with Vegetables",
		Description: "Quick-fried beef strips with peppers, carrot and snap peas over rice.",
		MealType:    nutrition.MealDinner,
		Ingredients: []Ingredient{
			{Name: "lean beef strips", Amount: 140, Unit: "g"},
			{Name: "bell pepper", Amount: 1, Unit: "pcs"},
			{Name: "carrot", Amount: 1, Unit: "pcs"},
			{Name: "snap peas", Amount: 80, Unit: "g"},
			{Name: "white rice", Amount: 150, Unit: "g"},
			{Name: "soy sauce", Amount: 15, Unit: "ml"},
		},
		Instructions: []string{
			"Stir-fry the beef on high heat for 2 minutes and set aside.",
			"Fry the vegetables until crisp-tender.",
			"Return the beef, add soy sauce and serve over rice.",
		},
		PrepTime: 15, CookTime: 10, Difficulty: "medium",
		Tags: []string{"high-protein", "quick"}, CuisineType: "asian",
	},
	{
		Name:        "Herb-Roasted Chicken Thighs with Vegetables",
		Description: "Sheet-pan chicken thighs with zucchini, onion and baby potatoes.",
		MealType:    nutrition.MealDinner,
		Ingredients: []Ingredient{
			{Name: "chicken thighs", Amount: 180, Unit: "g"},
			{Name: "baby potatoes", Amount: 200, Unit: "g"},
			{Name: "zucchini", Amount: 1, Unit: "pcs"},
			{Name: "red onion", Amount: 0.5, Unit: "pcs"},
			{Name: "dried herbs", Amount: 5, Unit: "g"},
		},
		Instructions: []string{
			"Toss everything with herbs, salt and a little oil on a sheet pan.",
			"Roast at 200C for 35 minutes, turning once.",
		},
		PrepTime: 10, CookTime: 35, Difficulty: "easy",
		Tags: []string{"sheet-pan", "gluten-free"}, CuisineType: "mediterranean",
	},
	{
		Name:        "Whole-Wheat Pasta with Turkey Bolognese",
		Description: "Slow-simmered lean turkey ragu over whole-wheat spaghetti.",
		MealType:    nutrition.MealDinner,
		Ingredients: []Ingredient{
			{Name: "whole-wheat spaghetti", Amount: 80, Unit: "g"},
			{Name: "ground turkey", Amount: 130, Unit: "g"},
			{Name: "tomato passata", Amount: 200, Unit: "ml"},
			{Name: "onion", Amount: 0.5, Unit: "pcs"},
			{Name: "parmesan", Amount: 15, Unit: "g"},
		},
		Instructions: []string{
			"Brown the turkey with the chopped onion.",
			"Add passata and simmer for 15 minutes.",
			"Boil the pasta al dente, combine and top with parmesan.",
		},
		PrepTime: 10, CookTime: 25, Difficulty: "medium",
		Tags: []string{"high-protein", "family"}, CuisineType: "italian",
	},
	{
		Name:        "Tofu and Vegetable Buddha Bowl",
		Description: "Crispy baked tofu with quinoa, roasted vegetables and tahini dressing.",
		MealType:    nutrition.MealDinner,
		Ingredients: []Ingredient{
			{Name: "firm tofu", Amount: 150, Unit: "g"},
			{Name: "quinoa", Amount: 70, Unit: "g"},
			{Name: "broccoli", Amount: 100, Unit: "g"},
			{Name: "carrot", Amount: 1, Unit: "pcs"},
			{Name: "tahini", Amount: 15, Unit: "g"},
		},
		Instructions: []string{
			"Bake cubed tofu at 200C for 20 minutes until crisp.",
			"Roast the vegetables alongside and cook the quinoa.",
			"Assemble the bowl and drizzle with thinned tahini.",
		},
		PrepTime: 15, CookTime: 25, Difficulty: "easy",
		Tags: []string{"vegan", "high-fiber"}, CuisineType: "international",
	},

	// Snacks
	{
		Name:        "Greek Yogurt with Honey and Walnuts",
		Description: "Thick yogurt drizzled with honey and crunchy walnuts.",
		MealType:    nutrition.MealSnack,
		Ingredients: []Ingredient{
			{Name: "greek yogurt", Amount: 170, Unit: "g"},
			{Name: "honey", Amount: 10, Unit: "g"},
			{Name: "walnuts", Amount: 15, Unit: "g"},
		},
		Instructions: []string{
			"Spoon the yogurt into a bowl, drizzle with honey and top with walnuts.",
		},
		PrepTime: 2, CookTime: 0, Difficulty: "easy",
		Tags: []string{"quick", "vegetarian"}, CuisineType: "greek",
	},
	{
		Name:        "Apple Slices with Peanut Butter",
		Description: "Crisp apple slices with a side of natural peanut butter.",
		MealType:    nutrition.MealSnack,
		Ingredients: []Ingredient{
			{Name: "apple", Amount: 1, Unit: "pcs"},
			{Name: "peanut butter", Amount: 20, Unit: "g"},
		},
		Instructions: []string{
			"Core and slice the apple, serve with peanut butter for dipping.",
		},
		PrepTime: 3, CookTime: 0, Difficulty: "easy",
		Tags: []string{"quick", "vegan"}, CuisineType: "american",
	},
	{
		Name:        "Hummus with Vegetable Sticks",
		Description: "Creamy hummus with carrot, cucumber and pepper sticks.",
		MealType:    nutrition.MealSnack,
		Ingredients: []Ingredient{
			{Name: "hummus", Amount: 60, Unit: "g"},
			{Name: "carrot", Amount: 1, Unit: "pcs"},
			{Name: "cucumber", Amount: 0.5, Unit: "pcs"},
			{Name: "bell pepper", Amount: 0.5, Unit: "pcs"},
		},
		Instructions: []string{
			"Cut the vegetables into sticks and serve with the hummus.",
		},
		PrepTime: 5, CookTime: 0, Difficulty: "easy",
		Tags: []string{"vegan", "fresh"}, CuisineType: "mediterranean",
	},
	{
		Name:        "Cottage Cheese with Pineapple",
		Description: "Fresh cottage cheese topped with pineapple chunks.",
		MealType:    nutrition.MealSnack,
		Ingredients: []Ingredient{
			{Name: "cottage cheese", Amount: 150, Unit: "g"},
			{Name: "pineapple", Amount: 80, Unit: "g"},
		},
		Instructions: []string{
			"Combine the cottage cheese and pineapple in a bowl.",
		},
		PrepTime: 3, CookTime: 0, Difficulty: "easy",
		Tags: []string{"high-protein", "vegetarian"}, CuisineType: "international",
	},
}
