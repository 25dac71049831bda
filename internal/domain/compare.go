package domain

import "sort"

// Compare ranks the cities of an analysis summary by overall AQI, lowest
// (cleanest air) first, with name order breaking exact ties so output is
// deterministic. DeltaAQI measures each city's distance above the best one.
func Compare(summary *AnalysisSummary) (*Comparison, error) {
	if summary == nil || len(summary.Cities) == 0 {
		return nil, &InsufficientDataError{Reason: "nothing to compare"}
	}
	if len(summary.Cities) < 2 {
		return nil, &InsufficientDataError{Reason: "comparison needs at least 2 cities"}
	}

	ranking := make([]CityRank, 0, len(summary.Cities))
	for city, result := range summary.Cities {
		ranking = append(ranking, CityRank{City: city, Result: result})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Result.OverallAQI != ranking[j].Result.OverallAQI {
			return ranking[i].Result.OverallAQI < ranking[j].Result.OverallAQI
		}
		return ranking[i].City < ranking[j].City
	})

	best := ranking[0].Result.OverallAQI
	for i := range ranking {
		ranking[i].Rank = i + 1
		ranking[i].DeltaAQI = round2(ranking[i].Result.OverallAQI - best)
	}

	return &Comparison{
		GeneratedAt: summary.GeneratedAt,
		Ranking:     ranking,
	}, nil
}
