package school

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	courseStatusTag  = "course_status"
	courseStatusText = "invalid course status"

	gradeTypeTag  = "grade_type"
	gradeTypeText = "invalid grade type"

	invoiceStatusTag  = "invoice_status"
	invoiceStatusText = "invalid invoice status"

	scoreMaxTag  = "score_max"
	scoreMaxText = "score cannot exceed the maximum score"

	amountTag  = "amount_positive"
	amountText = "the discount cannot exceed the sum of the line items"
)

// InitValidators registers the school record validators on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(courseStatusTag, oneOfValidation(CourseStatuses))
	core.RegisterCustomTranslation(validate, translator, courseStatusTag, courseStatusText)

	_ = validate.RegisterValidation(gradeTypeTag, oneOfValidation(GradeTypes))
	core.RegisterCustomTranslation(validate, translator, gradeTypeTag, gradeTypeText)

	_ = validate.RegisterValidation(invoiceStatusTag, oneOfValidation(InvoiceStatuses))
	core.RegisterCustomTranslation(validate, translator, invoiceStatusTag, invoiceStatusText)

	validate.RegisterStructValidation(gradeStructValidation, Grade{})
	core.RegisterCustomTranslation(validate, translator, scoreMaxTag, scoreMaxText)

	validate.RegisterStructValidation(invoiceStructValidation, Invoice{})
	core.RegisterCustomTranslation(validate, translator, amountTag, amountText)
}

func oneOfValidation(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return contains(values, fl.Field().String())
	}
}

// gradeStructValidation rejects scores above the maximum score.
func gradeStructValidation(sl validator.StructLevel) {
	g := sl.Current().Interface().(Grade)
	if g.MaxScore > 0 && g.Score > g.MaxScore {
		sl.ReportError(g.Score, "score", "Score", scoreMaxTag, "")
	}
}

// invoiceStructValidation rejects invoices whose amount would be negative.
func invoiceStructValidation(sl validator.StructLevel) {
	inv := sl.Current().Interface().(Invoice)
	if InvoiceAmount(inv.Items, inv.Discount) < 0 {
		sl.ReportError(inv.Discount, "discount", "Discount", amountTag, "")
	}
}
