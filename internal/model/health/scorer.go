package health

import (
	"math"
)

// Metrics are the caller-supplied inputs to a health assessment.
type Metrics struct {
	MonthlyIncome     float64 `json:"monthly_income"`
	MonthlyExpenses   float64 `json:"monthly_expenses"`
	TotalSavings      float64 `json:"total_savings"`
	TotalDebt         float64 `json:"total_debt"`
	EmergencyFund     float64 `json:"emergency_fund"`
	CreditUtilization float64 `json:"credit_utilization"`
	OnTimePayments    float64 `json:"on_time_payments"`
	InvestmentRatio   float64 `json:"investment_ratio"`
}

// SampleMetrics stands in when no backend is wired to supply real numbers.
func SampleMetrics() Metrics {
	return Metrics{
		MonthlyIncome:     5000,
		MonthlyExpenses:   3500,
		TotalSavings:      15000,
		TotalDebt:         8000,
		EmergencyFund:     10000,
		CreditUtilization: 25,
		OnTimePayments:    98,
		InvestmentRatio:   10,
	}
}

type Component struct {
	Name           string  `json:"name"`
	Score          float64 `json:"score"`
	Weight         float64 `json:"weight"`
	Status         string  `json:"status"`
	Recommendation string  `json:"recommendation"`
}

type Assessment struct {
	OverallScore    float64           `json:"overall_score"`
	Grade           string            `json:"grade"`
	Components      []Component       `json:"components"`
	Recommendations []string          `json:"recommendations"`
	Trends          map[string]string `json:"trends"`
}

// Score computes the weighted financial health assessment. Component scores
// are rounded to one decimal before weighting, so the overall score is a
// function of the reported breakdown.
func Score(m Metrics) Assessment {
	var components []Component
	var recommendations []string

	savingsRate := (m.MonthlyIncome - m.MonthlyExpenses) / math.Max(m.MonthlyIncome, 1) * 100
	savingsScore := clamp(savingsRate * 5)
	components = append(components, component("Savings Rate", savingsScore, 0.25,
		"Aim to save at least 20% of your income"))
	if savingsRate < 10 {
		recommendations = append(recommendations, "Increase your savings rate by reducing discretionary spending")
	}

	dtiRatio := m.TotalDebt / math.Max(m.MonthlyIncome*12, 1) * 100
	dtiScore := math.Max(100-dtiRatio*2, 0)
	components = append(components, component("Debt-to-Income", dtiScore, 0.20,
		"Keep total debt below 36% of annual income"))
	if dtiRatio > 40 {
		recommendations = append(recommendations, "Focus on paying down high-interest debt")
	}

	monthsCovered := m.EmergencyFund / math.Max(m.MonthlyExpenses, 1)
	emergencyScore := math.Min(monthsCovered*16.67, 100)
	components = append(components, component("Emergency Fund", emergencyScore, 0.20,
		"Build an emergency fund covering 6 months of expenses"))
	if monthsCovered < 3 {
		recommendations = append(recommendations, "Prioritize building your emergency fund to 3-6 months of expenses")
	}

	creditScore := math.Max(100-m.CreditUtilization*3, 0)
	components = append(components, component("Credit Utilization", creditScore, 0.15,
		"Keep credit utilization below 30%"))
	if m.CreditUtilization > 30 {
		recommendations = append(recommendations, "Pay down credit card balances to reduce utilization")
	}

	components = append(components, component("Payment History", m.OnTimePayments, 0.10,
		"Always pay bills on time"))

	investmentScore := math.Min(m.InvestmentRatio*6.67, 100)
	components = append(components, component("Investments", investmentScore, 0.10,
		"Invest 10-15% of income for long-term wealth"))
	if m.InvestmentRatio < 5 {
		recommendations = append(recommendations, "Start investing for retirement, even small amounts help")
	}

	var overall float64
	for _, c := range components {
		overall += c.Score * c.Weight
	}
	overall = round1(overall)

	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	if recommendations == nil {
		recommendations = []string{}
	}

	return Assessment{
		OverallScore:    overall,
		Grade:           GradeFor(overall),
		Components:      components,
		Recommendations: recommendations,
		Trends: map[string]string{
			"savings": "improving",
			"debt":    "stable",
			"overall": "improving",
		},
	}
}

// GradeFor maps a 0-100 score to a letter grade.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 80:
		return "A-"
	case score >= 75:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 65:
		return "B-"
	case score >= 60:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 50:
		return "C-"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

func statusFor(score float64) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	case score >= 20:
		return "poor"
	default:
		return "critical"
	}
}

func component(name string, score, weight float64, recommendation string) Component {
	return Component{
		Name:           name,
		Score:          round1(score),
		Weight:         weight,
		Status:         statusFor(score),
		Recommendation: recommendation,
	}
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
