package internal

import (
	"runtime"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/sirupsen/logrus"
)

func ShowVersion(log logrus.FieldLogger) {
	log.WithFields(logrus.Fields{
		"version":  versioninfo.Short(),
		"revision": versioninfo.Revision,
		"modified": versioninfo.DirtyBuild,
		"go":       runtime.Version(),
	}).Info("Version")
}
