package usecase

import (
	"fmt"

	"github.com/docqa-dev/docqa/internal/core/domain"
)

// systemInstruction is fixed across all calls. The language directive is
// appended separately by buildSystemMessage.
const systemInstruction = `You are an assistant that answers questions about uploaded documents.

Rules:
- Answer only using the provided context.
- Never fabricate information that is not present in the context.
- Do not put bracketed numeric citation markers in the answer; sources are reported separately.
- If the answer is not in the context, say that you do not know.`

const autoLanguageInstruction = "Answer in the same language as the question. If the context is written in a different language, translate the answer."

func buildSystemMessage(language domain.Language) string {
	return systemInstruction + "\n- " + languageInstruction(language)
}

// languageInstruction resolves the requested language tag. Unrecognized
// tags behave like Auto rather than failing the request.
func languageInstruction(language domain.Language) string {
	if language.Recognized() {
		return fmt.Sprintf("Answer only in %s.", string(language))
	}
	return autoLanguageInstruction
}
