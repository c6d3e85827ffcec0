package env

import (
	"github.com/thatsimonsguy/energy-calculator/internal/config"
)

var Cfg *config.Config
