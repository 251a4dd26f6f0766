// Package salary provides a deterministic salary benchmark for a role and
// experience level. Real geographic salary data is out of scope; currency
// and location are fixed placeholders.
package salary

import (
	"math"

	"github.com/hirestack/screening-agent/internal/models"
)

const experienceMultiplierStep = 0.05

type baseRange struct {
	min int
	max int
}

// Base ranges keyed by exact role title.
var roleRanges = map[string]baseRange{
	"Software Engineer":          {70000, 120000},
	"Senior Software Engineer":   {100000, 160000},
	"Frontend Developer":         {65000, 110000},
	"Backend Developer":          {70000, 125000},
	"Full Stack Developer":       {75000, 130000},
	"DevOps Engineer":            {80000, 140000},
	"Data Scientist":             {85000, 150000},
	"Data Analyst":               {60000, 100000},
	"Machine Learning Engineer":  {95000, 165000},
	"Product Manager":            {90000, 150000},
	"Project Manager":            {70000, 115000},
	"QA Engineer":                {55000, 95000},
	"UX Designer":                {65000, 110000},
	"Engineering Manager":        {120000, 180000},
	"Site Reliability Engineer":  {95000, 155000},
	"Security Engineer":          {90000, 150000},
	"Mobile Developer":           {70000, 125000},
	"Technical Writer":           {55000, 90000},
	"Customer Success Manager":   {55000, 95000},
	"Human Resources Specialist": {50000, 85000},
}

var defaultRange = baseRange{50000, 90000}

// Estimate returns the benchmark range for role adjusted for experience.
// It is a pure function: identical inputs always yield identical output.
func Estimate(role string, experienceYears int) models.SalaryBenchmark {
	base, ok := roleRanges[role]
	if !ok {
		base = defaultRange
	}

	if experienceYears < 0 {
		experienceYears = 0
	}
	multiplier := 1 + float64(experienceYears)*experienceMultiplierStep

	return models.SalaryBenchmark{
		Min:      int(math.Round(float64(base.min) * multiplier)),
		Max:      int(math.Round(float64(base.max) * multiplier)),
		Currency: "USD",
		Location: "Remote",
	}
}
