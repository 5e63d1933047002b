package notice

// Feed and file level.
var (
	MissingRequiredFile = Define("missing_required_file", Error,
		"A required file is missing.",
		"filename")
	MissingRecommendedFile = Define("missing_recommended_file", Warning,
		"A recommended file is missing.",
		"filename")
	EmptyFile = Define("empty_file", Error,
		"A file has no header or no data rows.",
		"filename")
	UnknownFile = Define("unknown_file", Info,
		"A file is not part of the feed schema and was ignored.",
		"filename")
	CsvParsingFailed = Define("csv_parsing_failed", Error,
		"The file could not be parsed as CSV past the given row.",
		"filename", "csvRowNumber", "message")
	IOError = Define("io_error", Error,
		"A file could not be read.",
		"filename", "exception", "message")
	RuntimeExceptionInLoader = Define("runtime_exception_in_loader_error", Error,
		"Loading a file failed unexpectedly; it is treated as missing.",
		"filename", "exception", "message")
	RuntimeExceptionInValidator = Define("runtime_exception_in_validator_error", Error,
		"A validator failed unexpectedly; its remaining results may be incomplete.",
		"validator", "exception", "message")
	ThreadExecutionError = Define("thread_execution_error", Error,
		"A worker failed outside of any validator.",
		"validator", "exception", "message")
)

// Header level.
var (
	EmptyColumnName = Define("empty_column_name", Error,
		"A column name is empty.",
		"filename", "index")
	DuplicatedColumn = Define("duplicated_column", Error,
		"A column name appears more than once; the first occurrence is used.",
		"filename", "fieldName", "firstIndex", "secondIndex")
	UnknownColumn = Define("unknown_column", Info,
		"A column is not defined for this file and is ignored.",
		"filename", "fieldName", "index")
	MissingRequiredColumn = Define("missing_required_column", Error,
		"A required column is missing.",
		"filename", "fieldName")
	MissingRecommendedColumn = Define("missing_recommended_column", Warning,
		"A recommended column is missing.",
		"filename", "fieldName")
)

// Row level.
var (
	InvalidRowLength = Define("invalid_row_length", Error,
		"A row has a different number of values than the header.",
		"filename", "csvRowNumber", "rowLength", "headerCount")
	LeadingOrTrailingWhitespaces = Define("leading_or_trailing_whitespaces", Warning,
		"A value has leading or trailing whitespace; it was trimmed.",
		"filename", "csvRowNumber", "fieldName", "fieldValue")
	NonASCIIOrNonPrintableChar = Define("non_ascii_or_non_printable_char", Warning,
		"An identifier contains non-ASCII or non-printable characters.",
		"filename", "csvRowNumber", "fieldName", "fieldValue")
	NonPrintableChar = Define("non_printable_char", Warning,
		"A value contains non-printable characters.",
		"filename", "csvRowNumber", "fieldName", "fieldValue")
	NewLineInValue = Define("new_line_in_value", Error,
		"A value contains a line break.",
		"filename", "csvRowNumber", "fieldName", "fieldValue")
	MissingRequiredField = Define("missing_required_field", Error,
		"A required field is empty.",
		"filename", "csvRowNumber", "fieldName")
	MissingRecommendedField = Define("missing_recommended_field", Warning,
		"A recommended field is empty.",
		"filename", "csvRowNumber", "fieldName")
)

// Field parsing.
var (
	InvalidInteger      = defineFieldKind("invalid_integer", Error, "A value is not an integer.")
	InvalidFloat        = defineFieldKind("invalid_float", Error, "A value is not a floating point number.")
	InvalidDecimal      = defineFieldKind("invalid_decimal", Error, "A value is not a decimal number.")
	InvalidDate         = defineFieldKind("invalid_date", Error, "A value is not a YYYYMMDD date.")
	InvalidTime         = defineFieldKind("invalid_time", Error, "A value is not an HH:MM:SS time.")
	InvalidColor        = defineFieldKind("invalid_color", Error, "A value is not a six digit hexadecimal color.")
	InvalidCurrency     = defineFieldKind("invalid_currency", Error, "A value is not an ISO 4217 currency code.")
	InvalidLanguageCode = defineFieldKind("invalid_language_code", Error, "A value is not a BCP 47 language tag.")
	InvalidTimezone     = defineFieldKind("invalid_timezone", Error, "A value is not a TZ database timezone.")
	InvalidEmail        = defineFieldKind("invalid_email", Error, "A value is not an email address.")
	InvalidURL          = defineFieldKind("invalid_url", Error, "A value is not an absolute http or https URL.")
	InvalidPhoneNumber  = defineFieldKind("invalid_phone_number", Error, "A value is not a phone number.")
	UnexpectedEnumValue = defineFieldKind("unexpected_enum_value", Warning, "An enum value is not one of the defined values.")

	NumberOutOfRange = Define("number_out_of_range", Error,
		"A number is outside the range allowed for its field.",
		"filename", "csvRowNumber", "fieldName", "fieldType", "fieldValue")
)

// Table level.
var (
	DuplicateKey = Define("duplicate_key", Error,
		"Two rows share the same primary key.",
		"filename", "csvRowNumber", "oldCsvRowNumber", "fieldName", "fieldValue")
	ForeignKeyViolation = Define("foreign_key_violation", Error,
		"A value does not reference any row of the parent file.",
		"childFilename", "childFieldName", "parentFilename", "parentFieldName", "fieldValue", "csvRowNumber")
)

func defineFieldKind(code string, severity Severity, description string) *Kind {
	return Define(code, severity, description, "filename", "csvRowNumber", "fieldName", "fieldValue")
}
