package controllers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/cppla/excelanalytics/models"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("charttype", func(fl validator.FieldLevel) bool {
			_, err := models.ParseChartType(fl.Field().String())
			return err == nil
		})
	})
}
