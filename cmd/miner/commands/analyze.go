package commands

import "MediaMiner/internal/app"

func init() {
	rootCmd.AddCommand(
		task("names-lines", "Charts baby name popularity around TV show debuts.", (*app.App).RunNamesLines),
		task("names-scatter", "Regresses the percentage jump on debut popularity.", (*app.App).RunNamesScatter),
		task("names-zeros", "Charts names nobody had when their show debuted.", (*app.App).RunNamesZeros),
		task("collaborations", "Splits director/actor collaborations and cross-references the ranked actors.", (*app.App).RunCollaborations),
		task("director-films", "Charts films made with each director's top actors.", (*app.App).RunDirectorFilms),
		task("director-awards", "Charts director awards per five-year interval.", (*app.App).RunDirectorAwards),
		task("director-success", "Compares box office gross with frequent and occasional actors.", (*app.App).RunDirectorSuccess),
		task("director-stars", "Draws lead star counts of the most prolific directors.", (*app.App).RunDirectorStars),
		task("cluster", "Finds communities of directors and actors.", (*app.App).RunCluster),
		task("villain-heatmap", "Draws a heatmap of villain places of birth.", (*app.App).RunVillainHeatmap),
		task("decade-heatmaps", "Draws villain origin heatmaps per decade.", (*app.App).RunDecadeHeatmaps),
		task("geopolitics", "Charts villain origins against conflicts with the USA.", (*app.App).RunGeopolitics),
		task("predict-conflict", "Trains the conflict classifier and reports its scores.", (*app.App).RunConflictPrediction),
		task("predict-trend", "Predicts the share of villains from countries in conflict over time.", (*app.App).RunTrendPrediction),
	)
}
