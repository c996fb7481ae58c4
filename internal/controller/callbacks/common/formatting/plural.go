package formatting

// pluralize выбирает форму слова для числа: one (1, 21), few (2-4, 22-24), many (остальные)
func pluralize(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeLessons возвращает правильное склонение слова "урок"
func PluralizeLessons(count int) string {
	return pluralize(count, "урок", "урока", "уроков")
}

// PluralizePackages возвращает правильное склонение слова "пакет"
func PluralizePackages(count int) string {
	return pluralize(count, "пакет", "пакета", "пакетов")
}

// PluralizeStudents возвращает правильное склонение слова "ученик"
func PluralizeStudents(count int) string {
	return pluralize(count, "ученик", "ученика", "учеников")
}
