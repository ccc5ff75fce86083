package conf

import (
	"os"
	"strconv"

	"github.com/golang/glog"
)

const (
	sandboxEnv    = "isSandbox"
	publicHostEnv = "PUBLIC_HOST"
)

type config struct {
	// Sandbox disables the stateful backends (redis, postgres, nats) so the
	// service can run against the core API alone.
	Sandbox    bool
	PublicHost string
}

var Config config

func Init() {
	initFromEnv()
}

func initFromEnv() {
	Config.Sandbox, _ = strconv.ParseBool(os.Getenv(sandboxEnv))
	Config.PublicHost = os.Getenv(publicHostEnv)
	if Config.PublicHost == "" {
		Config.PublicHost = "order.foodcourt.local"
	}
	glog.Infof("Config.Sandbox:%t, Config.PublicHost:%s", Config.Sandbox, Config.PublicHost)
}

func GetIsSandbox() bool {
	return Config.Sandbox
}

func GetPublicHost() string {
	return Config.PublicHost
}
