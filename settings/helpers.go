package settings

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/ordishs/gocore"
)

func getString(key, defaultValue string) string {
	value, found := gocore.Config().Get(key)
	if !found {
		return defaultValue
	}

	return value
}

func getURL(key, defaultValue string) *url.URL {
	value, _, _ := gocore.Config().GetURL(key, defaultValue)

	return value
}

func getBool(key string, defaultValue bool) bool {
	return gocore.Config().GetBool(key, defaultValue)
}

// getDeploymentWindows reads regtest_deployment_<name> for every known
// deployment.  Values are "start:timeout" in unix seconds.
func getDeploymentWindows() map[string]DeploymentWindow {
	windows := make(map[string]DeploymentWindow)

	for _, name := range chaincfg.DeploymentNames {
		value := getString("regtest_deployment_"+name, "")
		if value == "" {
			continue
		}

		window, err := parseDeploymentWindow(value)
		if err != nil {
			panic(err)
		}

		windows[name] = window
	}

	return windows
}

func parseDeploymentWindow(value string) (DeploymentWindow, error) {
	start, timeout, found := strings.Cut(value, ":")
	if !found {
		return DeploymentWindow{}, errors.NewConfigurationError("deployment window %q should be start:timeout", value)
	}

	startTime, err := strconv.ParseInt(strings.TrimSpace(start), 10, 64)
	if err != nil {
		return DeploymentWindow{}, errors.NewConfigurationError("invalid deployment start %q", start, err)
	}

	expireTime, err := strconv.ParseInt(strings.TrimSpace(timeout), 10, 64)
	if err != nil {
		return DeploymentWindow{}, errors.NewConfigurationError("invalid deployment timeout %q", timeout, err)
	}

	return DeploymentWindow{StartTime: startTime, ExpireTime: expireTime}, nil
}
