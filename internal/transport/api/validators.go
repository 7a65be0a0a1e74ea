package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin/binding"

	"github.com/go-playground/validator/v10"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
)

// validateMaxBytes в отличии от тэга max который проверяет длину рун, - проверят длину байт в поле.
func validateMaxBytes(fl validator.FieldLevel) bool {
	param := fl.Param() // получаем значение из тега
	maxBytes, err := strconv.Atoi(param)
	if err != nil {
		return false
	}

	// нужно убедится что значение поля - строка.
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return len([]byte(str)) <= maxBytes
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch domain.PaymentMethodType(str) {
	case domain.PaymentMethodWallet, domain.PaymentMethodGateway, domain.PaymentMethodCOD:
		return true
	}
	return false
}

func validateReturnReason(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return domain.ReturnReasonType(str).Valid()
}

func registerValidators() error {
	v, _ := binding.Validator.Engine().(*validator.Validate)
	for tag, fn := range map[string]validator.Func{
		"max_bytes":      validateMaxBytes,
		"payment_method": validatePaymentMethod,
		"return_reason":  validateReturnReason,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("validator registration %s: %s", tag, err.Error())
		}
	}
	return nil
}
