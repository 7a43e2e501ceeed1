package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"promptclub-backend/internal/bot"
	"promptclub-backend/internal/hub"
	"promptclub-backend/internal/leveling"
	"promptclub-backend/internal/models"
	"promptclub-backend/internal/snowflake"
)

// SendMessage runs the send pipeline: mute gate, append, +5 XP, then at most
// one bot trigger. The trigger resolves and the reply is written on its own
// goroutine; the sender's call returns as soon as their message is in.
func (e *Engine) SendMessage(userID int64, channelID int64, content string) (models.Message, error) {
	e.mutex.Lock()

	user, err := e.store.UserByID(userID)
	if err != nil {
		e.mutex.Unlock()
		if isNotFound(err) {
			return models.Message{}, fmt.Errorf("%w: %d", ErrUnknownUser, userID)
		}
		return models.Message{}, err
	}

	// TODO slowMode and maintenanceMode are toggled through UpdateConfig but
	// this gate does not consult them yet; enforcement semantics are undecided
	if user.IsMuted && user.MuteUntil > time.Now().UnixMilli() {
		e.mutex.Unlock()
		return models.Message{}, ErrMuted
	}

	id, err := snowflake.Generate()
	if err != nil {
		e.mutex.Unlock()
		return models.Message{}, err
	}

	msg := models.Message{
		ID:        id,
		ChannelID: channelID,
		UserID:    userID,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
		Type:      models.MessageText,
	}

	if err := e.store.InsertMessage(msg); err != nil {
		e.mutex.Unlock()
		return models.Message{}, err
	}

	sender, err := e.addXpLocked(userID, messageXpReward)
	e.mutex.Unlock()
	if err != nil {
		return models.Message{}, err
	}

	e.emitChannel(hub.MessageCreated, channelID, msg)
	e.emitGlobal(hub.UserUpdated, sender)

	// exactly one trigger path, command dispatch winning over mention
	switch {
	case strings.HasPrefix(content, "/"):
		e.wg.Add(1)
		go e.commandReply(sender, channelID, content)
	case strings.Contains(content, MentionToken) || channelID == e.botChannelID:
		e.wg.Add(1)
		go e.delegateReply(channelID, content)
	}

	return msg, nil
}

// AddXp adjusts a user's XP and recomputes their level from the new total.
func (e *Engine) AddXp(userID int64, amount int) (models.User, error) {
	e.mutex.Lock()
	user, err := e.addXpLocked(userID, amount)
	e.mutex.Unlock()
	if err != nil {
		return models.User{}, err
	}

	e.emitGlobal(hub.UserUpdated, user)
	return user, nil
}

func (e *Engine) addXpLocked(userID int64, amount int) (models.User, error) {
	user, err := e.store.UserByID(userID)
	if err != nil {
		return models.User{}, err
	}

	oldLevel := user.Level
	user.Xp, user.Level = leveling.Apply(user.Xp, amount)
	if user.Level > oldLevel {
		// level-up broadcast is deferred, the invariant update is what counts
		e.sugar.Debugf("User ID [%d] reached level %d", userID, user.Level)
	}

	if err := e.store.UpdateUser(user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DeleteMessage soft-deletes: the record stays for audit, renderers hide it.
// Unknown IDs are a no-op.
func (e *Engine) DeleteMessage(id int64) error {
	e.mutex.Lock()
	found, err := e.store.SoftDeleteMessage(id)
	if err != nil {
		e.mutex.Unlock()
		return err
	}

	var channelID int64
	if found {
		msg, err := e.store.MessageByID(id)
		if err != nil {
			e.mutex.Unlock()
			return err
		}
		channelID = msg.ChannelID
	}
	e.mutex.Unlock()

	if found {
		e.emitChannel(hub.MessageDeleted, channelID, id)
	}
	return nil
}

func (e *Engine) commandReply(sender models.User, channelID int64, content string) {
	defer e.wg.Done()

	fields := strings.Fields(content[1:])
	var command string
	var args []string
	if len(fields) > 0 {
		command = fields[0]
		args = fields[1:]
	}

	users, err := e.Users()
	if err != nil {
		e.sugar.Error(err)
		return
	}

	award := func(userID int64, amount int) {
		if _, err := e.AddXp(userID, amount); err != nil {
			e.sugar.Error(err)
		}
	}

	reply := e.dispatcher.Handle(e.ctx, command, args, sender, users, award)
	e.scheduleReply(channelID, reply)
}

func (e *Engine) delegateReply(channelID int64, content string) {
	defer e.wg.Done()

	prompt := strings.Replace(content, MentionToken, "", 1)
	reply := bot.Reply(e.ctx, e.delegate, prompt, "")
	e.scheduleReply(channelID, reply)
}

// scheduleReply writes the bot's message after the simulated typing latency.
// Engine shutdown drops replies that haven't fired.
func (e *Engine) scheduleReply(channelID int64, reply string) {
	delay := e.replyDelayMin
	if window := e.replyDelayMax - e.replyDelayMin; window > 0 {
		delay += time.Duration(rand.Int63n(int64(window)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-e.ctx.Done():
		return
	case <-timer.C:
	}

	id, err := snowflake.Generate()
	if err != nil {
		e.sugar.Error(err)
		return
	}

	msg := models.Message{
		ID:        id,
		ChannelID: channelID,
		UserID:    e.botUser.ID,
		Content:   reply,
		Timestamp: time.Now().UnixMilli(),
		Type:      models.MessageText,
	}

	e.mutex.Lock()
	err = e.store.InsertMessage(msg)
	e.mutex.Unlock()
	if err != nil {
		e.sugar.Error(err)
		return
	}

	e.emitChannel(hub.MessageCreated, channelID, msg)
}
