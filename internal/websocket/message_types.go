package websocket

// Типы входящих сообщений (клиент → сервер)
const (
	// JOIN_GAME - вход в комнату по коду
	JOIN_GAME = "join_game"

	// LEAVE_GAME - выход из комнаты
	LEAVE_GAME = "leave_game"

	// START_GAME - запуск игры (только создатель комнаты)
	START_GAME = "start_game"

	// SUBMIT_ANSWER - отправка ответа на текущий вопрос
	SUBMIT_ANSWER = "submit_answer"

	// NEXT_QUESTION - ручной переход к следующему вопросу (только создатель)
	NEXT_QUESTION = "next_question"

	// KICK_PLAYER - исключение участника (только создатель)
	KICK_PLAYER = "kick_player"
)

// Типы исходящих сообщений (сервер → клиент)
const (
	// CONNECTED - приветствие после установления соединения
	CONNECTED = "connected"

	// ERROR - сообщение об отклоненном действии
	ERROR = "error"

	// PLAYER_JOINED сообщает комнате о новом участнике
	PLAYER_JOINED = "player_joined"

	// UPDATE_LOBBY - полный снимок лобби для вошедшего соединения
	UPDATE_LOBBY = "update_lobby"

	// PLAYER_LEFT сообщает комнате об ушедшем участнике
	PLAYER_LEFT = "player_left"

	// GAME_STARTED сообщает о запуске игры
	GAME_STARTED = "game_started"

	// NEW_QUESTION - раздача очередного вопроса
	NEW_QUESTION = "new_question"

	// ANSWER_RESULT - приватный результат проверки ответа
	ANSWER_RESULT = "answer_result"

	// SCORE_UPDATE сообщает комнате об изменении счета участника
	SCORE_UPDATE = "score_update"

	// GAME_OVER - финальный рейтинг и победитель
	GAME_OVER = "game_over"

	// ACHIEVEMENT_UNLOCKED - приватное уведомление о новом достижении
	ACHIEVEMENT_UNLOCKED = "achievement_unlocked"

	// KICKED_OUT - уведомление об исключении участника
	KICKED_OUT = "kicked_out"
)
