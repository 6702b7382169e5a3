package providers

import (
	"errors"
	"fmt"
	"fvm/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	if cv.conf.Storage.Driver != "memory" && cv.conf.Storage.Path == "" {
		return errors.New("invalid config: storage.path is required for the " + cv.conf.Storage.Driver + " driver")
	}
	if cv.conf.Storage.AutoSave && cv.conf.Storage.AutoSaveDelay <= 0 {
		return errors.New("invalid config: storage.autoSaveDelay must be positive when autoSave is enabled")
	}
	return nil
}
