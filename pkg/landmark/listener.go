package landmark

import "go.uber.org/zap"

// PreparationListener. receives the events of a landmark preparation.
type PreparationListener interface {
	OnProgress(profile string, percent int)
	OnSubnetworkBuilt(profile string, id, size int)
	OnSubnetworkRejected(profile string, err error)
}

type NopListener struct{}

func (NopListener) OnProgress(profile string, percent int) {}

func (NopListener) OnSubnetworkBuilt(profile string, id, size int) {}

func (NopListener) OnSubnetworkRejected(profile string, err error) {}

type ZapListener struct {
	logger *zap.Logger
}

func NewZapListener(logger *zap.Logger) *ZapListener {
	return &ZapListener{logger: logger}
}

func (zl *ZapListener) OnProgress(profile string, percent int) {
	zl.logger.Info("landmark preparation progress", zap.String("profile", profile), zap.Int("percent", percent))
}

func (zl *ZapListener) OnSubnetworkBuilt(profile string, id, size int) {
	zl.logger.Info("landmarks created for subnetwork", zap.String("profile", profile),
		zap.Int("subnetwork", id), zap.Int("nodes", size))
}

func (zl *ZapListener) OnSubnetworkRejected(profile string, err error) {
	zl.logger.Warn("subnetwork rejected", zap.String("profile", profile), zap.Error(err))
}
