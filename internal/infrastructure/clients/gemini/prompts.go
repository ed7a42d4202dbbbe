package gemini

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

// The prompts embed literal JSON templates and demand a single fenced json
// block; the parse step in client.go relies on that contract.

const foodCategoriesJSON = `{
  "fruits": [],
  "vegetables": [],
  "grains": [],
  "proteins": {
    "meats": [],
    "poultry": [],
    "fish and seafood": [],
    "eggs": [],
    "legumes": [],
    "nuts and seeds": []
  },
  "dairy and non-dairy alternatives": {
    "milk": [],
    "cheese": [],
    "yogurt": [],
    "plant-based milks": []
  },
  "fats and oils": [],
  "herbs and spices": [],
  "sweeteners": [],
  "beverages": [],
  "condiments and sauces": [],
  "baking and cooking ingredients": [],
  "snacks and sweets": [],
  "prepared and processed foods": [],
  "whole meals": []
}`

const mealOutputTemplate = `{
  "image_recognition": {
    "name": ""
  },
  "ingredient_extraction": [],
  "ingredient_categorization": {},
  "nutritional_information": {
    "calories": 0,
    "macronutrients": {
      "carbohydrates": 0,
      "proteins": 0,
      "fats": 0
    },
    "micronutrients": {
      "vitamins": {
        "vitaminC": 0,
        "vitaminA": 0
      },
      "minerals": {
        "potassium": 0,
        "magnesium": 0
      }
    }
  },
  "caloric_breakdown": {
    "carbohydrates": 0,
    "proteins": 0,
    "fats": 0
  },
  "description": ""
}`

const digestionOutputTemplate = `{
  "analysis": {
    "color": "",
    "consistency": "",
    "shape": "",
    "size": "",
    "presence_of_blood": false,
    "presence_of_mucus": false,
    "bristol_stool_scale": 0
  },
  "concerns": [],
  "recommendations": [],
  "summary": ""
}`

const correlationOutputTemplate = `{
  "waterAndDigestion": [
    "Correlation between water intake and digestion patterns"
  ],
  "dietAndDigestion": [
    "Correlation between dietary patterns and digestion"
  ]
}`

func mealAnalysisPrompt() string {
	return "Given an image provided, assume that you are working for an app and do the following: " +
		"Image Recognition: Utilize advanced image recognition technology to analyze user-uploaded food images. The system should be capable of identifying the dish presented in the image with high accuracy. " +
		"Ingredient Extraction: Once the dish is identified, deploy a food recognition algorithm to dissect the image and determine the individual ingredients that make up the dish. " +
		"Ingredient Categorization: Organize the extracted ingredients into standard food categories. " +
		"These categories may include, but are not limited to, the following: " +
		foodCategoriesJSON +
		" Nutritional Information: Provide numerical values only for nutritional information. All measurements should be in grams (g) for macronutrients, milligrams (mg) for micronutrients, and absolute numbers for calories. Do not include text descriptions, ranges, or approximations - use single numerical values even if estimated. " +
		"Caloric Breakdown: Calculate specific numerical values for the caloric content. Provide exact numbers for the breakdown of calories by macronutrient (carbohydrates, proteins, fats), avoiding any text descriptions or ranges. " +
		"Description: Generate a tentative name for the dish and a brief description based on the identified ingredients. " +
		"Output: Respond ONLY with a JSON object inside a fenced json code block that matches exactly the following template, without any additional text, notes, or explanations. All nutritional values must be numbers, not strings or text descriptions: " +
		mealOutputTemplate
}

func digestionImagePrompt() string {
	return "As an AI medical expert specializing in gastroenterology, analyze the provided image of a bowel movement. " +
		"Perform the following analysis with clinical precision: " +
		"1. Visual Assessment: Evaluate the stool's physical characteristics including color, consistency, shape, and size. " +
		"2. Clinical Indicators: Identify any concerning elements such as the presence of blood, mucus, or abnormal coloration. " +
		"3. Bristol Stool Scale Classification: Determine the type according to the Bristol Stool Form Scale (1-7). " +
		"4. Medical Concerns: List any potential health concerns based on the visual analysis. " +
		"5. Recommendations: Provide relevant medical recommendations if concerns are identified. " +
		"Output: Respond ONLY with a JSON object inside a fenced json code block that matches exactly the following template, without any additional text or explanations: " +
		digestionOutputTemplate
}

func digestionDataPrompt(a entities.DigestionAnalysis) string {
	return "As an AI medical expert specializing in gastroenterology, analyze the following stool characteristics and provide medical insights: " +
		fmt.Sprintf("Bristol Scale: Type %s\n", a.BristolScale) +
		fmt.Sprintf("Color: %s\n", a.Color) +
		fmt.Sprintf("Consistency: %s\n", a.Consistency) +
		fmt.Sprintf("Shape: %s\n", a.Shape) +
		fmt.Sprintf("Size: %s\n", a.Size) +
		fmt.Sprintf("Presence of Blood: %t\n", a.HasBlood) +
		fmt.Sprintf("Presence of Mucus: %t\n\n", a.HasMucus) +
		"Based on these characteristics:\n" +
		"1. Clinical Assessment: Evaluate the stool characteristics for any potential health implications.\n" +
		"2. Medical Concerns: List any potential health concerns based on the provided characteristics.\n" +
		"3. Recommendations: Provide relevant medical recommendations based on the analysis.\n" +
		"Output: Respond ONLY with a JSON object inside a fenced json code block that matches exactly the following template, without any additional text or explanations: " +
		digestionOutputTemplate +
		" Ensure all responses are clinical and professional in nature."
}

// Correlation prompt data: timestamps plus salient fields only.

type waterPoint struct {
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

type mealPoint struct {
	Timestamp         string                      `json:"timestamp"`
	NutritionalReport *entities.NutritionalReport `json:"nutritional_report"`
}

type digestionCharacteristics struct {
	Color       string `json:"color"`
	Consistency string `json:"consistency"`
	HasBlood    bool   `json:"has_blood"`
	HasMucus    bool   `json:"has_mucus"`
}

type digestionPoint struct {
	BristolScale    string                   `json:"bristol_scale"`
	Timestamp       string                   `json:"timestamp"`
	Characteristics digestionCharacteristics `json:"characteristics"`
}

type correlationData struct {
	WaterIntake []waterPoint     `json:"water_intake"`
	Meals       []mealPoint      `json:"meals"`
	Digestion   []digestionPoint `json:"digestion"`
}

func correlationPrompt(
	water []entities.WaterIntakeRecord,
	meals []entities.MealRecord,
	digestions []entities.DigestionRecord,
) (string, error) {
	data := correlationData{
		WaterIntake: make([]waterPoint, 0, len(water)),
		Meals:       make([]mealPoint, 0, len(meals)),
		Digestion:   make([]digestionPoint, 0, len(digestions)),
	}

	for _, r := range water {
		data.WaterIntake = append(data.WaterIntake, waterPoint{
			Amount:    r.Amount,
			Timestamp: r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	for _, r := range meals {
		data.Meals = append(data.Meals, mealPoint{
			Timestamp:         r.CreatedAt.UTC().Format(time.RFC3339),
			NutritionalReport: r.NutritionalReport,
		})
	}
	for _, r := range digestions {
		data.Digestion = append(data.Digestion, digestionPoint{
			BristolScale: r.Analysis.BristolScale,
			Timestamp:    r.CreatedAt.UTC().Format(time.RFC3339),
			Characteristics: digestionCharacteristics{
				Color:       r.Analysis.Color,
				Consistency: r.Analysis.Consistency,
				HasBlood:    r.Analysis.HasBlood,
				HasMucus:    r.Analysis.HasMucus,
			},
		})
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`As a medical expert specializing in gastroenterology and nutrition, analyze the following week's health data and identify meaningful correlations and patterns:

%s

Focus on:
1. Water Intake & Digestion Correlations:
   - Analyze how water consumption patterns affect digestion timing and quality
   - Identify optimal hydration patterns that correlate with healthy digestion
   - Note any delays or improvements in digestion based on water intake

2. Diet & Digestion Correlations:
   - Examine how meal timing and composition affect digestion patterns
   - Identify foods or eating patterns that correlate with better or worse digestion
   - Note any consistent delays between meals and digestion events

Provide insights in a clear, actionable format. Focus on strong correlations and patterns that could be useful for improving health outcomes.

Output: Respond ONLY with a JSON object inside a fenced json code block that matches exactly the following template, without any additional text or explanations:
%s

Each array should contain 3-5 clear, specific observations about correlations found in the data. If no clear correlations are found, provide appropriate cautionary statements about insufficient data or weak correlations.`, payload, correlationOutputTemplate), nil
}
