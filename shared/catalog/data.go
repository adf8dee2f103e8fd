package catalog

import "github.com/akbar-farajov/booking-system/shared/models"

// Default returns the catalog shipped with the application
func Default() *Static {
	return New(defaultData)
}

var defaultData = Data{
	Countries: []models.Country{
		{ID: 1, Name: "United States"},
		{ID: 2, Name: "France"},
		{ID: 3, Name: "Italy"},
		{ID: 4, Name: "Spain"},
		{ID: 5, Name: "Turkey"},
		{ID: 6, Name: "Japan"},
	},
	Hotels: map[string][]models.Hotel{
		"United States": {
			{ID: 1, Name: "Manhattan Grand", Price: 180},
			{ID: 2, Name: "Golden Gate Lodge", Price: 140},
			{ID: 3, Name: "Route 66 Motel", Price: 70},
		},
		"France": {
			{ID: 1, Name: "Hotel Le Marais", Price: 100},
			{ID: 2, Name: "Riviera Palace", Price: 150},
			{ID: 3, Name: "Montmartre Inn", Price: 80},
		},
		"Italy": {
			{ID: 1, Name: "Roma Centrale", Price: 120},
			{ID: 2, Name: "Venezia Canal Suites", Price: 160},
			{ID: 3, Name: "Firenze B&B", Price: 75},
		},
		"Spain": {
			{ID: 1, Name: "Barcelona Beach Hotel", Price: 110},
			{ID: 2, Name: "Madrid Plaza", Price: 95},
			{ID: 3, Name: "Sevilla Patio House", Price: 65},
		},
		"Turkey": {
			{ID: 1, Name: "Bosphorus View", Price: 90},
			{ID: 2, Name: "Cappadocia Cave Hotel", Price: 130},
			{ID: 3, Name: "Antalya Resort", Price: 85},
		},
		"Japan": {
			{ID: 1, Name: "Tokyo Skyline", Price: 170},
			{ID: 2, Name: "Kyoto Ryokan", Price: 190},
			{ID: 3, Name: "Osaka Capsule Plus", Price: 60},
		},
	},
	Meals: map[string]models.MealMenu{
		"United States": {
			Lunch: []models.Meal{
				{ID: 1, Name: "Classic Burger", Price: 18},
				{ID: 2, Name: "Caesar Salad", Price: 14},
			},
			Dinner: []models.Meal{
				{ID: 1, Name: "Ribeye Steak", Price: 35},
				{ID: 2, Name: "BBQ Platter", Price: 28},
			},
		},
		"France": {
			Lunch: []models.Meal{
				{ID: 1, Name: "Croque Monsieur", Price: 20},
				{ID: 2, Name: "Salade Nicoise", Price: 15},
			},
			Dinner: []models.Meal{
				{ID: 1, Name: "Coq au Vin", Price: 25},
				{ID: 2, Name: "Bouillabaisse", Price: 32},
			},
		},
		"Italy": {
			Lunch: []models.Meal{
				{ID: 1, Name: "Margherita Pizza", Price: 16},
				{ID: 2, Name: "Caprese Panino", Price: 12},
			},
			Dinner: []models.Meal{
				{ID: 1, Name: "Osso Buco", Price: 30},
				{ID: 2, Name: "Tagliatelle al Ragu", Price: 22},
			},
		},
		"Spain": {
			Lunch: []models.Meal{
				{ID: 1, Name: "Tapas Selection", Price: 17},
				{ID: 2, Name: "Gazpacho", Price: 11},
			},
			Dinner: []models.Meal{
				{ID: 1, Name: "Paella Valenciana", Price: 26},
				{ID: 2, Name: "Cochinillo", Price: 29},
			},
		},
		"Turkey": {
			Lunch: []models.Meal{
				{ID: 1, Name: "Doner Plate", Price: 12},
				{ID: 2, Name: "Lahmacun", Price: 9},
			},
			Dinner: []models.Meal{
				{ID: 1, Name: "Iskender Kebab", Price: 21},
				{ID: 2, Name: "Meze Feast", Price: 24},
			},
		},
		"Japan": {
			Lunch: []models.Meal{
				{ID: 1, Name: "Ramen Bowl", Price: 14},
				{ID: 2, Name: "Bento Box", Price: 16},
			},
			Dinner: []models.Meal{
				{ID: 1, Name: "Sushi Omakase", Price: 45},
				{ID: 2, Name: "Kaiseki", Price: 55},
			},
		},
	},
}
