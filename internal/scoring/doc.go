// Package scoring содержит правила оценки EBIOS RM: тяжесть по DICT,
// потенциал источника риска, пертинентность пар SR×OV, матрицу
// тяжесть×вероятность, остаточный риск по стратегии обработки и
// детерминированные сортировки для отчётов.
//
// Все функции чистые. Значения вне шкалы не подправляются, а отклоняются
// ошибкой с ErrInvalidInput или ErrDanglingReference внутри.
package scoring
