package utils

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
)

// maxWorkers caps the automatic worker count; each worker drives its own browser page.
const maxWorkers = 16

// GetOptimalWorkerCount determines the number of workers based on config and system resources.
func GetOptimalWorkerCount(configValue string) int {
	if manualWorkers, err := strconv.Atoi(configValue); err == nil && manualWorkers > 0 {
		log.Info().Int("workers", manualWorkers).Msg("using manually configured number of workers")
		return manualWorkers
	}

	if configValue != "auto" {
		log.Warn().Str("workers", configValue).Msg("invalid workers value, defaulting to 'auto' mode")
	}

	// Logical cores: scraping is mostly I/O bound.
	cpuCores, err := cpu.Counts(true)
	if err != nil {
		log.Warn().Err(err).Int("workers", 2).Msg("could not detect CPU cores, falling back to default")
		return 2
	}

	optimalCount := clampWorkers(cpuCores / 2)
	log.Info().Int("cores", cpuCores).Int("workers", optimalCount).Msg("automatically setting number of workers")
	return optimalCount
}

func clampWorkers(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxWorkers {
		return maxWorkers
	}
	return n
}
