package router

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// dateonly accepts calendar dates in YYYY-MM-DD form. Request bodies carry
// dates as strings so a birth date never picks up a spurious time of day.
func dateonly(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("dateonly", dateonly)
	}
}
