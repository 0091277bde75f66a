package commands

import "MediaMiner/internal/app"

func init() {
	rootCmd.AddCommand(
		task("scrape-tvshows", "Scrapes the most voted IMDB TV series and their characters.", (*app.App).RunTVShowScraper),
		task("scrape-awards", "Scrapes the IMDB awards of the configured directors.", (*app.App).RunAwardsScraper),
		task("scrape-topchart", "Renders the IMDB top rated chart and saves its movies.", (*app.App).RunTopChartScraper),
		task("scrape-boxoffice", "Scrapes the yearly top grossing movies.", (*app.App).RunBoxOfficeScraper),
		task("scrape-villain-links", "Collects villain profile links from the listing pages.", (*app.App).RunLinkScraper),
		task("scrape-villain-details", "Scrapes the details of every staged villain.", (*app.App).RunDetailScraper),
		task("export-villains", "Writes the scraped villains to villains_data.json.", (*app.App).ExportVillains),
		task("resolve-origins", "Looks up the place of origin of box office villains on wikis.", (*app.App).RunOriginResolver),
		task("villains", "Runs links, details and export one after the other.", (*app.App).RunVillainWorkflow),
	)
}
