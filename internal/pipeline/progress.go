package pipeline

import "math/rand"

// ProgressSink receives best-effort status updates while a request is
// in flight. Implementations must swallow their own delivery failures;
// the pipeline never checks whether an update landed. Done is called
// exactly once per request, on every path out of Handle.
type ProgressSink interface {
	Update(text string)
	Done()
}

// NopSink discards all progress.
type NopSink struct{}

func (NopSink) Update(string) {}
func (NopSink) Done()         {}

var searchStatuses = []string{
	"🔍 Изучаю законодательную базу...",
	"🌐 Проверяю актуальную судебную практику...",
	"⚖️ Сверяюсь с последними изменениями в законах...",
	"📂 Поднимаю архивы документов...",
}

var generatingStatuses = []string{
	"📝 Формулирую юридическое заключение...",
	"🤖 Анализирую найденные факты...",
	"💡 Готовлю рекомендации для вас...",
	"✍️ Пишу ответ...",
}

func pick(options []string) string {
	return options[rand.Intn(len(options))]
}
