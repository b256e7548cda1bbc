package handler

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Trans is the global validator translator, used by response.go.
var Trans ut.Translator

// InitTrans configures the gin validator to report errors using json field
// names and installs English translations.
func InitTrans() (err error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// report the json tag instead of the Go field name; callers see the
	// field exactly as they sent it
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enT := en.New()
	uni := ut.New(enT, enT)
	Trans, _ = uni.GetTranslator("en")
	return en_translations.RegisterDefaultTranslations(v, Trans)
}

// RemoveTopStruct strips the struct name prefix from translated validator
// errors, e.g. "UpdateDraftRequest.group_id" -> "group_id".
func RemoveTopStruct(fields map[string]string) map[string]string {
	res := map[string]string{}
	for field, msg := range fields {
		res[field[strings.Index(field, ".")+1:]] = msg
	}
	return res
}
