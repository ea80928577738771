// Package cache implementa el cache efímero en memoria que usan los
// endpoints de lectura (dashboard, listados, totales de liquidación).
//
// # Semántica
//
//   - Cada entrada tiene su TTL; si el caller pasa 0 se usa el default de
//     la instancia (5 minutos si tampoco se configuró).
//   - Desalojo perezoso: Get/Has detectan entradas vencidas, las remueven
//     y responden como ausentes.
//   - Desalojo programado: cada Set arma un timer por entrada. El timer es
//     cancelable: al sobrescribir una clave se detiene el timer anterior, y
//     un timer que dispara valida la generación del ocupante antes de
//     borrar. Una clave sobrescrita nunca pierde su valor nuevo por un
//     timer viejo.
//   - Size/Keys/Stats cuentan el mapa crudo: una entrada vencida que
//     todavía no fue desalojada cuenta. Size refleja ocupación, no
//     vigencia.
//   - GetOrSet colapsa misses concurrentes de la misma clave en una sola
//     ejecución de la factory (singleflight). Si la factory falla, el
//     error se propaga y el mapa no se toca.
//
// El cache es un componente explícito: se construye en el wiring y se
// inyecta donde haga falta. No hay instancia global.
package cache
