// Package prompt assembles the model prompt from the four context
// blocks. The template is a versioned constant: swapping it changes
// behavior, never the assembly contract.
package prompt

import (
	"fmt"
	"strings"
)

// templateV2 is the current prompt. Block order mirrors the stated
// priority: statute text over web results over dialogue history.
const templateV2 = `Ты — высококвалифицированный налоговый юрист-консультант (AI Legal Tax Assistant), специализирующийся на законодательстве Российской Федерации.

Правила работы:
1. Используй данные из блока ЗАКОНОДАТЕЛЬСТВО (кодексы, законы) как приоритетный источник.
2. Дополняй ответ данными из блока ВЕБ-ПОИСК (практика, письма Минфина/ФНС).
3. Цитируй статьи законов (например: "согласно п. 3 ст. 346.11 НК РФ").
4. Структурируй ответ: Суть -> Обоснование -> Практика -> Рекомендация.
5. Если информации недостаточно, честно скажи об этом.

%s%s%sВопрос пользователя:
%s

Отвечай на русском, используя Markdown.
В конце добавь: "_Ответ сгенерирован ИИ. Не является официальной юридической консультацией._"`

// Build composes the final prompt. Empty blocks render inert: a block
// with no content contributes nothing to the template.
func Build(query, referenceText, searchText, historyText string) string {
	return fmt.Sprintf(templateV2,
		section("ЗАКОНОДАТЕЛЬСТВО", referenceText),
		section("ВЕБ-ПОИСК", searchText),
		section("ИСТОРИЯ ДИАЛОГА", historyText),
		query,
	)
}

func section(label, content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	return fmt.Sprintf("=== %s ===\n%s\n\n", label, content)
}
