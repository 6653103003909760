package validation

import (
	"strings"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

// doeRecord is a complete, well-formed research record.
func doeRecord() *models.ResearchRecord {
	return &models.ResearchRecord{
		FirmName:      "Doe & Associates",
		Location:      models.Location{City: "Austin", State: "TX"},
		PracticeAreas: []string{"family law", "divorce"},
		Competitors: []models.Competitor{
			{Name: "Smith Family Law", Reviews: models.Float(120), Rating: models.Float(4.8)},
			{Name: "Garcia & Lee", Reviews: models.Float(85), Rating: models.Float(4.6)},
			{Name: "Hill Country Legal Group", Reviews: models.Float(42), Rating: models.Float(4.2)},
		},
	}
}

const fillerSentence = "Families in Austin compare several firms before they book a consultation, and the office that answers first usually earns the case. "

// doeReport renders a report for doeRecord that passes every check. The
// gap costs 9,200 + 8,150 + 6,100 add up to the 23,450 headline.
func doeReport() string {
	return `<!DOCTYPE html>
<html>
<head>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body { font-family: Georgia, serif; color: #222; }
@media (max-width: 600px) { body { font-size: 15px; } }
</style>
</head>
<body>
<section class="hero">
<h1>Doe &amp; Associates is missing <strong>$23,450</strong> in cases every month</h1>
</section>
<p>We reviewed how people searching for a family lawyer in Austin find and choose a firm.</p>
<h2>Gap #1: Search visibility</h2>
<p>Estimated loss: <strong>$9,200</strong> per month. Search → call → consultation.</p>
<h2>Gap #2: Review volume</h2>
<p>Estimated loss: <strong>$8,150</strong> per month. Review → trust → hire.</p>
<h2>Gap #3: Intake speed</h2>
<p>Estimated loss: <strong>$6,100</strong> per month. Missed call → lost client.</p>
<table>
<tr><th>Competitor</th><th>Reviews</th><th>Rating</th></tr>
<tr><td>Smith Family Law</td><td>120</td><td>4.8</td></tr>
<tr><td>Garcia &amp; Lee</td><td>85</td><td>4.6</td></tr>
<tr><td>Hill Country Legal Group</td><td>42</td><td>4.2</td></tr>
</table>
<p>` + strings.Repeat(fillerSentence, 40) + `</p>
<p>Doe &amp; Associates can close these gaps with focused work on search, reviews and intake.</p>
</body>
</html>`
}
